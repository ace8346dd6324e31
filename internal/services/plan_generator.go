package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/jumpinai/intake-service/internal/dtos"
)

const jumpSystemPrompt = `You are JumpinAI, a consultant who writes practical AI transformation plans ("Jumps") for small and mid-sized businesses.

Write a plan in Markdown with these sections:
1. Summary
2. Quick wins (first 30 days)
3. Core initiatives (next 90 days)
4. Tools and budget
5. Risks and how to mitigate them

Ground every recommendation in the stated goals and challenges. Do not invent facts about the business.`

// PlanGenerator turns a validated submission into a Jump.
type PlanGenerator interface {
	// Enabled is false when generation happens downstream instead.
	Enabled() bool
	GeneratePlan(ctx context.Context, sub dtos.FormSubmission) (string, error)
}

// OpenAIPlanGenerator wraps the OpenAI client. If client is nil, generation
// is disabled.
type OpenAIPlanGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIPlanGenerator creates the generator. Pass an empty apiKey to
// disable calls.
func NewOpenAIPlanGenerator(apiKey, model string, opts ...option.RequestOption) *OpenAIPlanGenerator {
	if apiKey == "" {
		return &OpenAIPlanGenerator{client: nil, model: model}
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	c := openai.NewClient(opts...)
	return &OpenAIPlanGenerator{client: &c, model: model}
}

func (g *OpenAIPlanGenerator) Enabled() bool {
	return g != nil && g.client != nil
}

func (g *OpenAIPlanGenerator) GeneratePlan(ctx context.Context, sub dtos.FormSubmission) (string, error) {
	if !g.Enabled() {
		return "", errors.New("openai: plan generation disabled")
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(jumpSystemPrompt),
			openai.UserMessage(formatJumpPrompt(sub)),
		},
	}

	resp, err := g.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}

	plan := strings.TrimSpace(resp.Choices[0].Message.Content)
	if plan == "" {
		return "", errors.New("openai: empty plan returned")
	}
	return plan, nil
}

func formatJumpPrompt(sub dtos.FormSubmission) string {
	return fmt.Sprintf("Goals:\n%s\n\nChallenges:\n%s", sub.Goals, sub.Challenges)
}
