package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	text string
	err  error
}

// stubInvoker replays a scripted sequence of Bedrock responses.
type stubInvoker struct {
	results []stubResult
	calls   int
}

func (s *stubInvoker) InvokeModel(_ context.Context, _ *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	result := s.results[s.calls]
	s.calls++

	if result.err != nil {
		return nil, result.err
	}

	body, err := json.Marshal(anthropicResponse{
		Content: []anthropicBlock{{Type: "text", Text: result.text}},
	})
	if err != nil {
		return nil, err
	}

	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func newTestPlanner(stub *stubInvoker) *Planner {
	p := NewWithClient(stub, "anthropic.claude-3-5-haiku-20241022-v1:0", 3)
	p.retryDelay = time.Millisecond
	return p
}

const validPlanJSON = `{"actions":[{"type":"navigate","value":"http://localhost:8000/login.html"},{"type":"wait","value":2000}]}`

func TestPlanDirectJSON(t *testing.T) {
	stub := &stubInvoker{results: []stubResult{{text: validPlanJSON}}}
	p := newTestPlanner(stub)

	plan, err := p.Plan(context.Background(), "open the login page")
	require.NoError(t, err)

	assert.Len(t, plan.Actions, 2)
	assert.Equal(t, 1, stub.calls)
}

func TestPlanExtractsWrappedJSON(t *testing.T) {
	wrapped := "Here is your plan:\n```json\n" + validPlanJSON + "\n```\nGood luck!"
	stub := &stubInvoker{results: []stubResult{{text: wrapped}}}
	p := newTestPlanner(stub)

	plan, err := p.Plan(context.Background(), "open the login page")
	require.NoError(t, err)
	assert.Len(t, plan.Actions, 2)
}

func TestPlanNoJSONInResponse(t *testing.T) {
	stub := &stubInvoker{results: []stubResult{{text: "I cannot help with that."}}}
	p := newTestPlanner(stub)

	_, err := p.Plan(context.Background(), "open the login page")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestPlanRetriesOnThrottling(t *testing.T) {
	throttle := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
	stub := &stubInvoker{results: []stubResult{
		{err: throttle},
		{err: throttle},
		{text: validPlanJSON},
	}}
	p := newTestPlanner(stub)

	plan, err := p.Plan(context.Background(), "open the login page")
	require.NoError(t, err)
	assert.Len(t, plan.Actions, 2)
	assert.Equal(t, 3, stub.calls)
}

func TestPlanValidationErrorIsTerminal(t *testing.T) {
	stub := &stubInvoker{results: []stubResult{
		{err: &smithy.GenericAPIError{Code: "ValidationException", Message: "bad model id"}},
	}}
	p := newTestPlanner(stub)

	_, err := p.Plan(context.Background(), "open the login page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Bedrock request")
	assert.Equal(t, 1, stub.calls)
}

func TestPlanRetriesExhausted(t *testing.T) {
	unavailable := &smithy.GenericAPIError{Code: "ServiceUnavailableException", Message: "down"}
	stub := &stubInvoker{results: []stubResult{
		{err: unavailable},
		{err: unavailable},
		{err: unavailable},
	}}
	p := newTestPlanner(stub)

	_, err := p.Plan(context.Background(), "open the login page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, stub.calls)
}

func TestPlanTransportErrorRetried(t *testing.T) {
	stub := &stubInvoker{results: []stubResult{
		{err: errors.New("connection reset")},
		{text: validPlanJSON},
	}}
	p := newTestPlanner(stub)

	plan, err := p.Plan(context.Background(), "open the login page")
	require.NoError(t, err)
	assert.Len(t, plan.Actions, 2)
	assert.Equal(t, 2, stub.calls)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "wrapped object", text: "before {\"a\":1} after", want: `{"a":1}`},
		{name: "no object", text: "nothing here", wantErr: true},
		{name: "reversed braces", text: "} {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildUserPromptContainsRequest(t *testing.T) {
	prompt := buildUserPrompt("login and add daily timesheet")
	assert.Contains(t, prompt, "login and add daily timesheet")
	assert.Contains(t, prompt, "{{USERNAME}}")
	assert.Contains(t, prompt, "{{PASSWORD}}")
}
