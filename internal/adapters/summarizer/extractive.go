package summarizer

import (
	"context"
	"strings"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

// Texts shorter than this are returned as-is by every summarizer.
const minSummaryWords = 80

// Sentence budget per age tier.
var tierSentences = map[string]int{
	domain.AgeGroupChild:  1,
	domain.AgeGroupTeen:   2,
	domain.AgeGroupAdult:  3,
	domain.AgeGroupSenior: 3,
}

// Extractive implements domain.Summarizer without a model call: it keeps the
// leading sentences of the bill text, tiered by age group.
type Extractive struct{}

var _ domain.Summarizer = (*Extractive)(nil)

// NewExtractive creates the summarizer.
func NewExtractive() *Extractive {
	return &Extractive{}
}

// Summarize keeps the first sentences of the text, fewer for younger readers.
func (s *Extractive) Summarize(_ context.Context, bill domain.BillSummary, ageGroup string) (string, error) {
	text := strings.TrimSpace(bill.Description)
	if text == "" {
		return "", nil
	}
	if len(strings.Fields(text)) < minSummaryWords {
		return text, nil
	}

	limit, ok := tierSentences[ageGroup]
	if !ok {
		limit = tierSentences[domain.AgeGroupAdult]
	}
	sentences := splitSentences(text)
	if len(sentences) > limit {
		sentences = sentences[:limit]
	}
	out := strings.Join(sentences, " ")
	// A single run-on sentence can still exceed any reasonable summary; fall
	// back to a word cap.
	words := strings.Fields(out)
	if len(words) > maxSummaryWords(ageGroup) {
		out = strings.Join(words[:maxSummaryWords(ageGroup)], " ") + "..."
	}
	return out, nil
}

func maxSummaryWords(ageGroup string) int {
	switch ageGroup {
	case domain.AgeGroupChild:
		return 30
	case domain.AgeGroupTeen:
		return 50
	default:
		return 80
	}
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if tail := strings.TrimSpace(b.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// TruncateFallback returns the degraded summary used when a summarizer fails:
// the first 80 words of the original text.
func TruncateFallback(text string) string {
	words := strings.Fields(text)
	if len(words) <= minSummaryWords {
		return text
	}
	return strings.Join(words[:minSummaryWords], " ") + "..."
}
