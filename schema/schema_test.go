package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionUnmarshalNumericValue(t *testing.T) {
	var action Action
	err := json.Unmarshal([]byte(`{"type":"wait","value":3000}`), &action)
	require.NoError(t, err)

	assert.Equal(t, ActionWait, action.Type)
	assert.Equal(t, "3000", action.Value)
}

func TestActionUnmarshalDefaultTimeout(t *testing.T) {
	var action Action
	err := json.Unmarshal([]byte(`{"type":"click","selector":"#loginButton"}`), &action)
	require.NoError(t, err)

	assert.Equal(t, 10_000, action.TimeoutMs)

	err = json.Unmarshal([]byte(`{"type":"click","selector":"#x","timeout_ms":500}`), &action)
	require.NoError(t, err)

	assert.Equal(t, 500, action.TimeoutMs)
}

func TestActionUnmarshalNullValue(t *testing.T) {
	var action Action
	err := json.Unmarshal([]byte(`{"type":"click","selector":"#x","value":null}`), &action)
	require.NoError(t, err)

	assert.Equal(t, "", action.Value)
}

func TestActionUnmarshalBadValue(t *testing.T) {
	var action Action
	err := json.Unmarshal([]byte(`{"type":"fill","selector":"#x","value":{"nested":true}}`), &action)
	assert.Error(t, err)
}

func TestWaitMs(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   int
	}{
		{
			name:   "explicit value",
			action: Action{Type: ActionWait, Value: "1500", TimeoutMs: 10_000},
			want:   1500,
		},
		{
			name:   "invalid value falls back to timeout",
			action: Action{Type: ActionWait, Value: "soon", TimeoutMs: 4000},
			want:   4000,
		},
		{
			name:   "no value falls back to timeout",
			action: Action{Type: ActionWait, TimeoutMs: 4000},
			want:   4000,
		},
		{
			name:   "nothing set falls back to 2000",
			action: Action{Type: ActionWait},
			want:   2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.WaitMs())
		})
	}
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr string
	}{
		{
			name:    "empty plan",
			plan:    Plan{},
			wantErr: "no actions",
		},
		{
			name:    "navigate without URL",
			plan:    Plan{Actions: []Action{{Type: ActionNavigate}}},
			wantErr: "requires a URL",
		},
		{
			name:    "fill without selector",
			plan:    Plan{Actions: []Action{{Type: ActionFill, Value: "hello"}}},
			wantErr: "requires a selector",
		},
		{
			name:    "click without selector",
			plan:    Plan{Actions: []Action{{Type: ActionClick}}},
			wantErr: "requires a selector",
		},
		{
			name:    "wait_for_selector with value only",
			plan:    Plan{Actions: []Action{{Type: ActionWaitForSelector, Value: "#form"}}},
			wantErr: "",
		},
		{
			name:    "assert_title without value",
			plan:    Plan{Actions: []Action{{Type: ActionAssertTitle}}},
			wantErr: "requires an expected title",
		},
		{
			name:    "unknown type",
			plan:    Plan{Actions: []Action{{Type: "hover"}}},
			wantErr: "unknown action type",
		},
		{
			name: "valid plan",
			plan: Plan{Actions: []Action{
				{Type: ActionNavigate, Value: "http://localhost:8000/login.html"},
				{Type: ActionFill, Selector: "input[placeholder='Username']", Value: "{{USERNAME}}"},
				{Type: ActionClick, Selector: "#loginButton"},
				{Type: ActionWait, Value: "1000"},
			}},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParsePlan(t *testing.T) {
	raw := `{"actions":[
		{"type":"navigate","value":"http://localhost:8000/login.html"},
		{"type":"wait","value":2000},
		{"type":"assert_title","value":"Timesheet"}
	]}`

	plan, err := ParsePlan([]byte(raw))
	require.NoError(t, err)
	require.Len(t, plan.Actions, 3)
	assert.Equal(t, "2000", plan.Actions[1].Value)

	_, err = ParsePlan([]byte(`{"actions":[{"type":"teleport"}]}`))
	assert.Error(t, err)

	_, err = ParsePlan([]byte(`not json`))
	assert.Error(t, err)
}
