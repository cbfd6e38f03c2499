package progression

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

// ErrBillNumberRequired is returned for a blank bill number.
var ErrBillNumberRequired = errors.New("bill_number is required")

// TotalStages is the number of stages in the legislative pipeline.
const TotalStages = 6

// stageKeywords is tested in this fixed priority order; the first keyword
// contained in the action text wins, regardless of positions in the text.
var stageKeywords = []struct {
	keyword string
	stage   int
}{
	{"introduced", 1},
	{"committee", 2},
	{"floor", 3},
	{"passed", 4},
	{"senate", 5},
	{"signed", 6},
	{"vetoed", 6},
}

const actionFetchLimit = 50

// Service builds a bill's staged progression from its action history.
type Service struct {
	details domain.BillDetailSource
	repo    domain.ProgressionRepo
	log     zerolog.Logger
}

// NewService creates the progression service. repo may be nil.
func NewService(details domain.BillDetailSource, repo domain.ProgressionRepo, logger zerolog.Logger) *Service {
	return &Service{details: details, repo: repo, log: logger}
}

// Progression fetches the action history and classifies every action into a
// stage, oldest first. Upstream failure degrades to an empty progression.
func (s *Service) Progression(ctx context.Context, billNumber string) ([]domain.ProgressionStep, error) {
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		return nil, ErrBillNumberRequired
	}

	actions, err := s.details.FetchActions(ctx, billNumber, actionFetchLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("bill", billNumber).Msg("progression: action fetch degraded")
		return nil, nil
	}

	steps := make([]domain.ProgressionStep, 0, len(actions))
	for _, a := range actions {
		steps = append(steps, domain.ProgressionStep{
			Date:        a.Date,
			Status:      stageName(Classify(a.Text)),
			Stage:       Classify(a.Text),
			Description: a.Text,
		})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Date < steps[j].Date })

	// The stored row always reflects the most recent action.
	if s.repo != nil && len(steps) > 0 {
		latest := steps[len(steps)-1]
		if err := s.repo.UpsertStep(ctx, billNumber, latest); err != nil {
			s.log.Warn().Err(err).Str("bill", billNumber).Msg("progression: upsert failed")
		}
	}
	return steps, nil
}

// Classify maps an action text to a stage 1..6. Keywords are tested in fixed
// priority order: text containing both "introduced" and "committee" is
// stage 1 because "introduced" is tested first.
func Classify(actionText string) int {
	text := strings.ToLower(actionText)
	for _, sk := range stageKeywords {
		if strings.Contains(text, sk.keyword) {
			return sk.stage
		}
	}
	return 1
}

func stageName(stage int) string {
	switch stage {
	case 2:
		return "In Committee"
	case 3:
		return "Floor Consideration"
	case 4:
		return "Passed House"
	case 5:
		return "In Senate"
	case 6:
		return "Signed or Vetoed"
	default:
		return "Introduced"
	}
}
