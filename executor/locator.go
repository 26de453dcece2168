package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
)

// SelectorKind tells how a plan selector should be resolved against the page.
type SelectorKind int

const (
	// SelectorCSS is handed to Playwright as-is.
	SelectorCSS SelectorKind = iota
	// SelectorContains is the planner's `tag:contains('text')` shorthand.
	SelectorContains
	// SelectorLabel matches `tag[label='...']` pseudo selectors the planner
	// emits for labelled form fields.
	SelectorLabel
	// SelectorExactText matches `text='...'` selectors.
	SelectorExactText
	// SelectorWorklogArea is the APEX work log textarea special case.
	SelectorWorklogArea
)

// SelectorSpec is the parsed form of a plan selector.
type SelectorSpec struct {
	Kind SelectorKind
	Tag  string
	Text string
	Raw  string
}

var (
	containsPattern = regexp.MustCompile(`(?i)(\w+):contains\(['"]([^'"]+)['"]\)`)
	labelPattern    = regexp.MustCompile(`\w*\[label=['"]([^'"]+)['"]\]`)
	textPattern     = regexp.MustCompile(`^text=['"]([^'"]+)['"]$`)
)

// ParseSelectorSpec classifies a plan selector. The planner is told to prefer
// stable CSS selectors, but also emits jQuery-style `:contains` and
// `[label=...]` forms that Playwright does not understand natively.
func ParseSelectorSpec(selector string) SelectorSpec {
	lower := strings.ToLower(selector)
	if strings.HasPrefix(lower, "textarea") {
		return SelectorSpec{Kind: SelectorWorklogArea, Raw: selector}
	}

	if match := containsPattern.FindStringSubmatch(selector); match != nil {
		return SelectorSpec{
			Kind: SelectorContains,
			Tag:  strings.ToLower(match[1]),
			Text: match[2],
			Raw:  selector,
		}
	}

	if match := labelPattern.FindStringSubmatch(selector); match != nil {
		return SelectorSpec{Kind: SelectorLabel, Text: match[1], Raw: selector}
	}

	if match := textPattern.FindStringSubmatch(selector); match != nil {
		return SelectorSpec{Kind: SelectorExactText, Text: match[1], Raw: selector}
	}

	return SelectorSpec{Kind: SelectorCSS, Raw: selector}
}

// resolveLocator turns a plan selector into a Playwright locator, falling back
// from role and label lookups to plain CSS.
func resolveLocator(page playwright.Page, selector string) playwright.Locator {
	spec := ParseSelectorSpec(selector)

	switch spec.Kind {
	case SelectorWorklogArea:
		if count, err := page.Locator("#P1_WORK_LOG").Count(); err == nil && count == 1 {
			return page.Locator("#P1_WORK_LOG")
		}
		return page.Locator("textarea[name='P1_WORK_LOG'], textarea").First()

	case SelectorContains:
		log.Debugf("parsed contains selector: element=%s, text=%s", spec.Tag, spec.Text)
		switch spec.Tag {
		case "a":
			return page.Locator(fmt.Sprintf("a:has-text('%s')", spec.Text)).First()
		case "button":
			exact := page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
				Name:  spec.Text,
				Exact: playwright.Bool(true),
			})
			if count, err := exact.Count(); err == nil && count > 0 {
				return exact
			}
			return page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
				Name: spec.Text,
			})
		default:
			return page.GetByText(spec.Text, playwright.PageGetByTextOptions{
				Exact: playwright.Bool(false),
			})
		}

	case SelectorLabel:
		log.Debugf("using label lookup for: %s", spec.Text)
		return page.GetByLabel(spec.Text, playwright.PageGetByLabelOptions{
			Exact: playwright.Bool(true),
		})

	case SelectorExactText:
		log.Debugf("using text lookup for: %s", spec.Text)
		return page.GetByText(spec.Text, playwright.PageGetByTextOptions{
			Exact: playwright.Bool(true),
		})

	default:
		log.Debugf("using CSS locator for: %s", selector)
		return page.Locator(selector)
	}
}
