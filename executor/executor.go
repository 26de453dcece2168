// Package executor drives a Chromium browser through a validated action plan
// using Playwright, capturing screenshots, video and a trace along the way.
package executor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
	"github.com/schollz/progressbar/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/config"
	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

var ErrDomainNotAllowed = errors.New("domain not allowed")

// Options are per-run browser settings coming from command line flags.
type Options struct {
	Headless     bool
	SlowMoMs     int
	ShowProgress bool
}

type Runner struct {
	cfg         *config.Config
	opts        Options
	credentials map[string]string
}

func New(cfg *config.Config, opts Options) *Runner {
	return &Runner{
		cfg:  cfg,
		opts: opts,
		credentials: map[string]string{
			"USERNAME": cfg.Credentials.Username,
			"PASSWORD": cfg.Credentials.Password,
		},
	}
}

// Run executes every action of the plan in order. The first failing step
// aborts the run; a trace archive is written no matter how the run ends.
func (r *Runner) Run(ctx context.Context, plan *schema.Plan) error {
	artifactsDir := r.cfg.Artifacts.Dir
	videosDir := filepath.Join(artifactsDir, "videos")
	tracesDir := filepath.Join(artifactsDir, "traces")
	for _, dir := range []string{artifactsDir, videosDir, tracesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}

	mode := "headless"
	if !r.opts.Headless {
		mode = "headed"
	}
	log.Infof("starting plan execution with %d actions", len(plan.Actions))
	log.Infof("mode: %s, slow_mo=%dms", mode, r.opts.SlowMoMs)

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start Playwright driver (run the install command first?): %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
		SlowMo:   playwright.Float(float64(r.opts.SlowMoMs)),
	})
	if err != nil {
		return fmt.Errorf("failed to launch chromium: %w", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		RecordVideo:       &playwright.RecordVideo{Dir: videosDir},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	defer browserCtx.Close()

	browserCtx.SetDefaultTimeout(float64(r.cfg.Browser.DefaultTimeoutMs))
	browserCtx.SetDefaultNavigationTimeout(float64(r.cfg.Browser.NavigationTimeoutMs))

	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := browserCtx.Tracing().Start(playwright.TracingStartOptions{
		Screenshots: playwright.Bool(true),
		Snapshots:   playwright.Bool(true),
	}); err != nil {
		log.Warnf("failed to start tracing: %s", err)
	}
	defer func() {
		tracePath := filepath.Join(tracesDir, "trace.zip")
		if stopErr := browserCtx.Tracing().Stop(tracePath); stopErr != nil {
			log.Warnf("failed to save trace: %s", stopErr)
		} else {
			log.Infof("trace saved: %s", tracePath)
		}
		log.Infof("artifacts saved in: %s", artifactsDir)
	}()

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(plan.Actions)))
	}

	total := len(plan.Actions)
	for i, action := range plan.Actions {
		stepNum := i + 1
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Infof("step %d/%d: %s - %s", stepNum, total, action.Type,
			common.GetStrOr(action.Selector, action.Value))

		if err := r.runStep(page, stepNum, action); err != nil {
			log.Errorf("step %d failed: %s", stepNum, err)
			if r.cfg.Artifacts.ScreenshotOnFailure {
				r.screenshot(page, stepNum, "FAILURE")
			}
			return fmt.Errorf("step %d (%s) failed: %w", stepNum, action.Type, err)
		}

		if bar != nil {
			bar.Add(1)
		}
		log.Debugf("step %d completed", stepNum)
	}

	log.Info("plan execution completed")
	return nil
}

func (r *Runner) runStep(page playwright.Page, stepNum int, action schema.Action) error {
	switch action.Type {
	case schema.ActionNavigate:
		return r.runNavigate(page, stepNum, action)
	case schema.ActionWait:
		waitMs := action.WaitMs()
		log.Infof("waiting for %dms", waitMs)
		page.WaitForTimeout(float64(waitMs))
		r.screenshot(page, stepNum, "wait")
		return nil
	case schema.ActionWaitForSelector:
		return r.runWaitForSelector(page, action)
	case schema.ActionFill:
		return r.runFill(page, stepNum, action)
	case schema.ActionSelect:
		return r.runSelect(page, stepNum, action)
	case schema.ActionClick:
		return r.runClick(page, stepNum, action)
	case schema.ActionPressKey:
		key := common.GetStrOr(action.Value, "Tab")
		log.Infof("pressing key: %s", key)
		if err := page.Keyboard().Press(key); err != nil {
			return err
		}
		page.WaitForTimeout(150)
		return nil
	case schema.ActionAssertTitle:
		return assertTitle(page, action.Value)
	case schema.ActionAssertText:
		return assertText(page, action)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (r *Runner) runNavigate(page playwright.Page, stepNum int, action schema.Action) error {
	target := action.Value
	if !domainAllowed(target, r.cfg.Browser.AllowedDomains) {
		return fmt.Errorf("%w: %s", ErrDomainNotAllowed, target)
	}

	log.Infof("navigating to: %s", target)
	err := r.retryAction(func() error {
		_, gotoErr := page.Goto(target, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		return gotoErr
	})
	if err != nil {
		return err
	}

	r.screenshot(page, stepNum, "navigate")
	return nil
}

func (r *Runner) runWaitForSelector(page playwright.Page, action schema.Action) error {
	selector := common.GetStrOr(action.Value, action.Selector)
	log.Infof("waiting for selector: %s", selector)

	locator := resolveLocator(page, selector)
	return r.retryAction(func() error {
		return locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(r.actionTimeout(action)),
		})
	})
}

func (r *Runner) runFill(page playwright.Page, stepNum int, action schema.Action) error {
	value := InjectCredentials(action.Value, r.credentials)
	sensitive := HasCredentialPlaceholder(action.Value)

	display := value
	if sensitive {
		display = Mask(value)
	}
	log.Infof("filling %q with: %s", action.Selector, display)

	locator := resolveLocator(page, action.Selector)
	err := r.retryAction(func() error {
		return r.fillOnce(page, locator, value, action)
	})
	if err != nil {
		return err
	}

	name := "fill_input"
	if sensitive {
		name = "fill_masked"
	}
	r.screenshot(page, stepNum, name)
	return nil
}

// fillOnce fills a plain input, or types into an autocomplete widget and
// picks the matching option. Comboboxes and readonly inputs are the
// autocomplete case.
func (r *Runner) fillOnce(page playwright.Page, locator playwright.Locator, value string, action schema.Action) error {
	isCombobox := false
	if role, err := locator.GetAttribute("role", playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(2000),
	}); err == nil && role == "combobox" {
		isCombobox = true
	}
	if !isCombobox {
		if readonly, err := locator.Evaluate("el => el.hasAttribute('readonly')", nil); err == nil {
			if hasAttr, ok := readonly.(bool); ok && hasAttr {
				isCombobox = true
			}
		}
	}

	if err := locator.Focus(); err != nil {
		return err
	}

	if isCombobox {
		log.Debug("combobox or readonly field detected, typing value and selecting")
		if err := locator.Fill(""); err != nil {
			return err
		}
		if err := locator.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
			Delay: playwright.Float(100),
		}); err != nil {
			return err
		}
		page.WaitForTimeout(float64(r.cfg.Browser.AutocompleteWaitMs))

		option := page.Locator(fmt.Sprintf("[role='option']:has-text('%s')", value)).First()
		if visible, err := option.IsVisible(); err == nil && visible {
			return option.Click()
		}
		return page.Keyboard().Press("Enter")
	}

	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(r.actionTimeout(action)),
	}); err != nil {
		return err
	}
	return locator.Fill(value)
}

func (r *Runner) runSelect(page playwright.Page, stepNum int, action schema.Action) error {
	log.Infof("selecting %q in %q", action.Value, action.Selector)

	locator := resolveLocator(page, action.Selector)
	err := r.retryAction(func() error {
		return r.selectOnce(page, locator, action.Value)
	})
	if err != nil {
		return err
	}

	r.screenshot(page, stepNum, "select")
	return nil
}

// selectOnce picks an option from a native <select>, or, when the element is
// hidden behind a custom widget (APEX style), types into the visible
// companion input instead.
func (r *Runner) selectOnce(page playwright.Page, locator playwright.Locator, value string) error {
	if hidden, err := locator.IsHidden(); err == nil && hidden {
		log.Debug("select element is hidden, driving the visible companion input")

		input := locator.Locator("xpath=preceding-sibling::input[not(@type='hidden') and not(@readonly)] | following-sibling::input[not(@type='hidden') and not(@readonly)]").First()
		if count, countErr := input.Count(); countErr != nil || count == 0 {
			input = locator.Locator("xpath=../input[not(@type='hidden') and not(@readonly)]").First()
		}

		if err := input.Focus(); err != nil {
			return err
		}
		if err := input.Fill(""); err != nil {
			return err
		}
		if err := input.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
			Delay: playwright.Float(100),
		}); err != nil {
			return err
		}
		page.WaitForTimeout(800)
		return page.Keyboard().Press("Enter")
	}

	_, err := locator.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{value},
	})
	return err
}

func (r *Runner) runClick(page playwright.Page, stepNum int, action schema.Action) error {
	log.Infof("clicking: %s", action.Selector)

	locator := resolveLocator(page, action.Selector)
	err := r.retryAction(func() error {
		if waitErr := locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(r.actionTimeout(action)),
		}); waitErr != nil {
			return waitErr
		}
		return locator.Click()
	})
	if err != nil {
		return err
	}

	r.screenshot(page, stepNum, "click")
	return nil
}

func assertTitle(page playwright.Page, expected string) error {
	actual, err := page.Title()
	if err != nil {
		return fmt.Errorf("failed to read page title: %w", err)
	}

	log.Infof("asserting title: expected=%q, actual=%q", expected, actual)
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("title mismatch: expected %q in %q", expected, actual)
	}
	return nil
}

// assertText checks that the expected text appears inside the selected
// element, or anywhere in the body when no selector is given.
func assertText(page playwright.Page, action schema.Action) error {
	html, err := page.Content()
	if err != nil {
		return fmt.Errorf("failed to read page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse page content: %w", err)
	}

	selector := common.GetStrOr(action.Selector, "body")
	log.Infof("asserting text %q in %q", action.Value, selector)

	found := false
	doc.Find(selector).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if strings.Contains(node.Text(), action.Value) {
			found = true
			return false
		}
		return true
	})

	if !found {
		return fmt.Errorf("text %q not found in %q", action.Value, selector)
	}
	return nil
}

// retryAction reruns a step on timeout with exponential backoff. Anything
// other than a Playwright timeout is terminal.
func (r *Runner) retryAction(fn func() error) error {
	maxRetries := r.cfg.Retry.MaxRetries
	delay := time.Duration(r.cfg.Retry.RetryDelayMs) * time.Millisecond

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTimeoutError(err) {
			return err
		}
		if attempt >= maxRetries {
			return fmt.Errorf("action failed after %d attempts: %w", maxRetries, err)
		}

		wait := delay * (1 << (attempt - 1))
		log.Warnf("action timed out (attempt %d/%d), retrying in %s", attempt, maxRetries, wait)
		time.Sleep(wait)
	}
}

func isTimeoutError(err error) bool {
	var pwErr *playwright.Error
	return errors.As(err, &pwErr) && pwErr.Name == "TimeoutError"
}

func (r *Runner) actionTimeout(action schema.Action) float64 {
	return float64(common.GetIntOr(action.TimeoutMs, r.cfg.Browser.DefaultTimeoutMs))
}

func (r *Runner) screenshot(page playwright.Page, stepNum int, name string) {
	path := filepath.Join(r.cfg.Artifacts.Dir, fmt.Sprintf("step_%02d_%s.png", stepNum, name))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		log.Warnf("failed to capture screenshot %s: %s", path, err)
	}
}

// domainAllowed checks the URL hostname against the allowlist with suffix
// matching, so subdomains of an allowed domain pass.
func domainAllowed(rawURL string, allowed []string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		log.Errorf("failed to parse URL %s: %s", rawURL, err)
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	for _, domain := range allowed {
		if host == domain || strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}
