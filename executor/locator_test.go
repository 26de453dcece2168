package executor

import "testing"

func TestParseSelectorSpec(t *testing.T) {
	tests := []struct {
		selector string
		want     SelectorSpec
	}{
		{
			selector: "button:contains('Sign In')",
			want:     SelectorSpec{Kind: SelectorContains, Tag: "button", Text: "Sign In"},
		},
		{
			selector: `a:contains("Log out")`,
			want:     SelectorSpec{Kind: SelectorContains, Tag: "a", Text: "Log out"},
		},
		{
			selector: "SPAN:contains('Welcome')",
			want:     SelectorSpec{Kind: SelectorContains, Tag: "span", Text: "Welcome"},
		},
		{
			selector: "input[label='Project']",
			want:     SelectorSpec{Kind: SelectorLabel, Text: "Project"},
		},
		{
			selector: "select[label='Work Mode']",
			want:     SelectorSpec{Kind: SelectorLabel, Text: "Work Mode"},
		},
		{
			selector: "text='Timesheet saved successfully'",
			want:     SelectorSpec{Kind: SelectorExactText, Text: "Timesheet saved successfully"},
		},
		{
			selector: "textarea[label='Worklog']",
			want:     SelectorSpec{Kind: SelectorWorklogArea},
		},
		{
			selector: "textarea[label='Work Log']",
			want:     SelectorSpec{Kind: SelectorWorklogArea},
		},
		{
			selector: "#loginButton",
			want:     SelectorSpec{Kind: SelectorCSS},
		},
		{
			selector: "input[placeholder='Username']",
			want:     SelectorSpec{Kind: SelectorCSS},
		},
	}

	for _, tt := range tests {
		got := ParseSelectorSpec(tt.selector)

		if got.Kind != tt.want.Kind {
			t.Errorf("%q: kind = %d, want %d", tt.selector, got.Kind, tt.want.Kind)
		}
		if got.Tag != tt.want.Tag {
			t.Errorf("%q: tag = %q, want %q", tt.selector, got.Tag, tt.want.Tag)
		}
		if got.Text != tt.want.Text {
			t.Errorf("%q: text = %q, want %q", tt.selector, got.Text, tt.want.Text)
		}
		if got.Raw != tt.selector {
			t.Errorf("%q: raw = %q, want original selector", tt.selector, got.Raw)
		}
	}
}
