package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

func longBillText() string {
	sentence := "This act directs the Secretary to establish a grant program for rural hospitals and community clinics across the United States. "
	return strings.Repeat(sentence, 8)
}

func TestExtractiveShortTextReturnedUnchanged(t *testing.T) {
	s := NewExtractive()
	bill := domain.BillSummary{Description: "A short bill about parks."}
	sum, err := s.Summarize(context.Background(), bill, domain.AgeGroupAdult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != bill.Description {
		t.Fatalf("expected short text unchanged, got %q", sum)
	}
}

func TestExtractiveTiersBySentenceCount(t *testing.T) {
	s := NewExtractive()
	bill := domain.BillSummary{Description: longBillText()}

	child, err := s.Summarize(context.Background(), bill, domain.AgeGroupChild)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adult, err := s.Summarize(context.Background(), bill, domain.AgeGroupAdult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strings.Fields(child)) >= len(strings.Fields(adult)) {
		t.Fatalf("expected child summary shorter than adult: %d vs %d words",
			len(strings.Fields(child)), len(strings.Fields(adult)))
	}
	if len(strings.Fields(child)) > 31 {
		t.Fatalf("child summary exceeds word cap: %d words", len(strings.Fields(child)))
	}
}

func TestExtractiveUnknownAgeGroupDefaultsToAdult(t *testing.T) {
	s := NewExtractive()
	bill := domain.BillSummary{Description: longBillText()}
	got, err := s.Summarize(context.Background(), bill, "robot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adult, _ := s.Summarize(context.Background(), bill, domain.AgeGroupAdult)
	if got != adult {
		t.Fatalf("expected adult tier for unknown age group")
	}
}

func TestTruncateFallback(t *testing.T) {
	short := "few words only"
	if TruncateFallback(short) != short {
		t.Fatalf("expected short text unchanged")
	}
	long := strings.Repeat("word ", 120)
	out := TruncateFallback(long)
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", out)
	}
	if len(strings.Fields(out)) != 80 {
		t.Fatalf("expected 80 words, got %d", len(strings.Fields(out)))
	}
}
