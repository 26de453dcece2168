package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type ActionType string

const (
	ActionNavigate        ActionType = "navigate"
	ActionFill            ActionType = "fill"
	ActionClick           ActionType = "click"
	ActionWaitForSelector ActionType = "wait_for_selector"
	ActionAssertTitle     ActionType = "assert_title"
	ActionWait            ActionType = "wait"
	ActionSelect          ActionType = "select"
	ActionPressKey        ActionType = "press_key"
	ActionAssertText      ActionType = "assert_text"
)

// AllActionTypes lists every action the executor can run.
var AllActionTypes = []ActionType{
	ActionNavigate,
	ActionFill,
	ActionClick,
	ActionWaitForSelector,
	ActionAssertTitle,
	ActionWait,
	ActionSelect,
	ActionPressKey,
	ActionAssertText,
}

const defaultActionTimeoutMs = 10_000

// Action is a single step in an execution plan. Value is always carried as a
// string; model output that uses a JSON number (wait durations, mostly) is
// converted during decoding.
type Action struct {
	Type      ActionType `json:"type"`
	Selector  string     `json:"selector,omitempty"`
	Value     string     `json:"value,omitempty"`
	TimeoutMs int        `json:"timeout_ms,omitempty"`
}

type Plan struct {
	Actions []Action `json:"actions"`
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      ActionType       `json:"type"`
		Selector  string           `json:"selector"`
		Value     *json.RawMessage `json:"value"`
		TimeoutMs *int             `json:"timeout_ms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.Type = raw.Type
	a.Selector = raw.Selector

	if raw.TimeoutMs != nil {
		a.TimeoutMs = *raw.TimeoutMs
	} else {
		a.TimeoutMs = defaultActionTimeoutMs
	}

	if raw.Value == nil || string(*raw.Value) == "null" {
		a.Value = ""
		return nil
	}

	var asString string
	if err := json.Unmarshal(*raw.Value, &asString); err == nil {
		a.Value = asString
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(*raw.Value, &asNumber); err == nil {
		a.Value = strconv.FormatInt(int64(asNumber), 10)
		return nil
	}

	return fmt.Errorf("action value must be a string or number, got %s", string(*raw.Value))
}

// WaitMs returns the wait duration of a `wait` action in milliseconds.
// An unparsable or missing value falls back to the action timeout, then to
// 2000ms.
func (a Action) WaitMs() int {
	if a.Value != "" {
		if ms, err := strconv.Atoi(a.Value); err == nil {
			return ms
		}
	}
	if a.TimeoutMs > 0 {
		return a.TimeoutMs
	}
	return 2000
}

// Validate checks per-action requirements so a malformed plan is rejected
// before a browser is ever launched.
func (p *Plan) Validate() error {
	if len(p.Actions) == 0 {
		return fmt.Errorf("plan contains no actions")
	}

	for i, action := range p.Actions {
		if err := action.validate(); err != nil {
			return fmt.Errorf("action %d (%s): %w", i+1, action.Type, err)
		}
	}

	return nil
}

func (a Action) validate() error {
	switch a.Type {
	case ActionNavigate:
		if a.Value == "" {
			return fmt.Errorf("navigate action requires a URL value")
		}
	case ActionFill:
		if a.Selector == "" {
			return fmt.Errorf("fill action requires a selector")
		}
	case ActionClick:
		if a.Selector == "" {
			return fmt.Errorf("click action requires a selector")
		}
	case ActionWaitForSelector:
		if a.Selector == "" && a.Value == "" {
			return fmt.Errorf("wait_for_selector requires a selector")
		}
	case ActionSelect:
		if a.Selector == "" {
			return fmt.Errorf("select action requires a selector")
		}
	case ActionAssertTitle:
		if a.Value == "" {
			return fmt.Errorf("assert_title requires an expected title value")
		}
	case ActionAssertText:
		if a.Value == "" {
			return fmt.Errorf("assert_text requires an expected text value")
		}
	case ActionWait, ActionPressKey:
		// value optional, defaults applied at execution time
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}

	return nil
}

// ParsePlan decodes and validates a plan from raw JSON.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan JSON: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return &plan, nil
}
