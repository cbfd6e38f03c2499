package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	openai "github.com/ps08022009/Know-Your-Bill/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Model input is capped the same way for both summarizer implementations.
const maxInputWords = 1024

// OpenAI produces abstractive bill summaries via Chat Completions.
type OpenAI struct {
	client  chatClient
	model   string
	timeout time.Duration
}

var _ domain.Summarizer = (*OpenAI)(nil)

// NewOpenAI creates the summarization provider.
func NewOpenAI(client chatClient, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAI{client: client, model: model, timeout: timeout}
}

// Summarize builds a short summary of the bill text, phrased for the given
// age group. Short texts are returned unchanged.
func (s *OpenAI) Summarize(ctx context.Context, bill domain.BillSummary, ageGroup string) (string, error) {
	text := strings.TrimSpace(bill.Description)
	if text == "" {
		return "", nil
	}
	words := strings.Fields(text)
	if len(words) < minSummaryWords {
		return text, nil
	}
	if len(words) > maxInputWords {
		text = strings.Join(words[:maxInputWords], " ")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf(`Summarize this congressional bill in 2-3 plain sentences for a %s reader.
Keep every fact from the text and do not invent provisions.
Bill text:
%s`, audienceLabel(ageGroup), text)

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.2,
		MaxTokens:   300,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.RoleSystem,
				Content: "You are a civic education assistant. Explain legislation accurately and simply.",
			},
			{
				Role:    openai.RoleUser,
				Content: userPrompt,
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func audienceLabel(ageGroup string) string {
	switch ageGroup {
	case domain.AgeGroupChild:
		return "young child"
	case domain.AgeGroupTeen:
		return "teenage"
	case domain.AgeGroupSenior:
		return "senior"
	default:
		return "general adult"
	}
}
