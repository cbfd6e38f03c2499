package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

type stubActions struct {
	actions []domain.BillAction
	err     error
}

func (s *stubActions) FetchDetails(context.Context, string) (domain.BillDetails, error) {
	return domain.BillDetails{}, nil
}

func (s *stubActions) FetchActions(context.Context, string, int) ([]domain.BillAction, error) {
	return s.actions, s.err
}

type stubProgressionRepo struct {
	bill string
	step domain.ProgressionStep
}

func (s *stubProgressionRepo) UpsertStep(_ context.Context, billNumber string, step domain.ProgressionStep) error {
	s.bill = billNumber
	s.step = step
	return nil
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"Introduced in House", 1},
		{"Referred to the Committee on Energy", 2},
		{"Placed on the floor calendar", 3},
		{"Passed the House by voice vote", 4},
		{"Received in the Senate", 5},
		{"Signed by the President", 6},
		{"Vetoed by the President", 6},
		{"Sponsor remarks published", 1},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Fatalf("Classify(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestClassifyPriorityOrderWins(t *testing.T) {
	// "introduced" is tested before "committee": a text mentioning both is
	// stage 1 even when "committee" appears first in the text.
	got := Classify("Committee hearing held after the bill was introduced")
	if got != 1 {
		t.Fatalf("expected stage 1 by keyword priority, got %d", got)
	}
}

func TestProgressionOrdersAndUpserts(t *testing.T) {
	src := &stubActions{actions: []domain.BillAction{
		{Date: "2024-03-01", Text: "Passed the House"},
		{Date: "2024-01-05", Text: "Introduced in House"},
		{Date: "2024-02-10", Text: "Referred to committee"},
	}}
	repo := &stubProgressionRepo{}
	svc := NewService(src, repo, zerolog.Nop())

	steps, err := svc.Progression(context.Background(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Stage != 1 || steps[1].Stage != 2 || steps[2].Stage != 4 {
		t.Fatalf("expected stages 1,2,4 in date order, got %d,%d,%d",
			steps[0].Stage, steps[1].Stage, steps[2].Stage)
	}
	if repo.bill != "1234" || repo.step.Stage != 4 {
		t.Fatalf("expected latest step upserted, got bill=%q step=%+v", repo.bill, repo.step)
	}
}

func TestProgressionDegradesOnUpstreamFailure(t *testing.T) {
	src := &stubActions{err: errors.New("timeout")}
	svc := NewService(src, nil, zerolog.Nop())
	steps, err := svc.Progression(context.Background(), "1234")
	if err != nil {
		t.Fatalf("expected degradation, got error %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected empty progression, got %d", len(steps))
	}
}

func TestProgressionRequiresBillNumber(t *testing.T) {
	svc := NewService(&stubActions{}, nil, zerolog.Nop())
	if _, err := svc.Progression(context.Background(), "  "); !errors.Is(err, ErrBillNumberRequired) {
		t.Fatalf("expected ErrBillNumberRequired, got %v", err)
	}
}
