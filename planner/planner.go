// Package planner turns a natural language request into an executable action
// plan by prompting an Anthropic model hosted on AWS Bedrock.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/charmbracelet/log"

	"github.com/Adarsh505-cloud/ai-web-executor/config"
	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

var ErrNoJSON = errors.New("no JSON object found in model response")

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 1200
	temperature      = 0.1
	topP             = 0.9
)

// ModelInvoker is the slice of the Bedrock runtime client the planner needs.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type Planner struct {
	client     ModelInvoker
	modelID    string
	maxRetries int
	retryDelay time.Duration
}

// New builds a planner backed by the Bedrock runtime in the configured region.
// AWS credentials are resolved through the default chain.
func New(ctx context.Context, cfg *config.Config) (*Planner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Planner{
		client:     bedrockruntime.NewFromConfig(awsCfg),
		modelID:    cfg.AWS.ModelID,
		maxRetries: cfg.Retry.MaxRetries,
		retryDelay: time.Second,
	}, nil
}

// NewWithClient builds a planner on a caller supplied invoker.
func NewWithClient(client ModelInvoker, modelID string, maxRetries int) *Planner {
	return &Planner{
		client:     client,
		modelID:    modelID,
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

type anthropicRequest struct {
	AnthropicVersion string         `json:"anthropic_version"`
	System           string         `json:"system"`
	Messages         []anthropicMsg `json:"messages"`
	MaxTokens        int            `json:"max_tokens"`
	Temperature      float64        `json:"temperature"`
	TopP             float64        `json:"top_p"`
}

type anthropicMsg struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
}

// Plan asks the model for an action plan. Throttling and transient service
// errors are retried with exponential backoff; validation errors and
// unparsable responses are terminal.
func (p *Planner) Plan(ctx context.Context, userRequest string) (*schema.Plan, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		System:           systemPrompt,
		Messages: []anthropicMsg{
			{
				Role:    "user",
				Content: []anthropicBlock{{Type: "text", Text: buildUserPrompt(userRequest)}},
			},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode model request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		log.Infof("requesting plan from Bedrock (attempt %d/%d)", attempt, p.maxRetries)

		resp, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(p.modelID),
			Body:        body,
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
		})
		if err != nil {
			retryable, classified := classifyInvokeError(err)
			if !retryable {
				return nil, classified
			}

			lastErr = classified
			if attempt == p.maxRetries {
				break
			}

			wait := p.retryDelay * (1 << (attempt - 1))
			log.Warnf("model invocation failed, retrying in %s: %s", wait, classified)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		text, err := extractText(resp.Body)
		if err != nil {
			return nil, err
		}
		log.Debugf("model raw response: %.200s", text)

		plan, err := decodePlan(text)
		if err != nil {
			return nil, err
		}

		log.Infof("generated plan with %d actions", len(plan.Actions))
		return plan, nil
	}

	return nil, fmt.Errorf("failed to generate plan after %d attempts: %w", p.maxRetries, lastErr)
}

// classifyInvokeError decides whether a Bedrock error is worth retrying.
// The boolean is true for throttling and transient service conditions.
func classifyInvokeError(err error) (bool, error) {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		// Transport level failure, worth another attempt.
		return true, fmt.Errorf("bedrock request failed: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "ThrottlingException":
		return true, fmt.Errorf("throttled by Bedrock: %w", err)
	case "ModelNotReadyException":
		return true, fmt.Errorf("model not ready: %w", err)
	case "ServiceUnavailableException", "InternalServerException":
		return true, fmt.Errorf("bedrock service error (%s): %w", apiErr.ErrorCode(), err)
	case "ValidationException":
		return false, fmt.Errorf("invalid Bedrock request: %w", err)
	default:
		return false, fmt.Errorf("bedrock error (%s): %w", apiErr.ErrorCode(), err)
	}
}

// extractText concatenates the text blocks of an Anthropic messages response.
func extractText(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid response from Bedrock: %w", err)
	}

	var builder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

// decodePlan parses model output as a plan. Models occasionally wrap JSON in
// prose or code fences, so a failed direct parse falls back to extracting the
// outermost object.
func decodePlan(text string) (*schema.Plan, error) {
	plan, err := schema.ParsePlan([]byte(text))
	if err == nil {
		return plan, nil
	}
	log.Debugf("direct plan decoding failed, attempting JSON extraction: %s", err)

	extracted, extractErr := extractJSONObject(text)
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %.200s", ErrNoJSON, text)
	}

	plan, err = schema.ParsePlan([]byte(extracted))
	if err != nil {
		return nil, fmt.Errorf("model response is not a valid plan: %w", err)
	}

	return plan, nil
}

func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}
