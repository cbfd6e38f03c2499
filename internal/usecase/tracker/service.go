package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

// ErrUserIDRequired is returned when a request lacks its user id.
var ErrUserIDRequired = errors.New("user_id is required")

// ErrInvalidAgeGroup is returned for an age group outside the known set.
var ErrInvalidAgeGroup = errors.New("invalid age_group")

var validAgeGroups = map[string]struct{}{
	domain.AgeGroupChild:  {},
	domain.AgeGroupTeen:   {},
	domain.AgeGroupAdult:  {},
	domain.AgeGroupSenior: {},
}

// Service manages user profiles and the reading activity trail.
type Service struct {
	profiles domain.ProfileRepo
	activity domain.ActivityRepo
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates the tracker service.
func NewService(profiles domain.ProfileRepo, activity domain.ActivityRepo, logger zerolog.Logger) *Service {
	return &Service{profiles: profiles, activity: activity, log: logger, now: time.Now}
}

// SaveProfile validates and stores a full profile; the save replaces any prior
// values for the user.
func (s *Service) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	profile.UserID = strings.TrimSpace(profile.UserID)
	if profile.UserID == "" {
		return ErrUserIDRequired
	}
	profile.AgeGroup = strings.ToLower(strings.TrimSpace(profile.AgeGroup))
	if profile.AgeGroup == "" {
		profile.AgeGroup = domain.AgeGroupAdult
	}
	if _, ok := validAgeGroups[profile.AgeGroup]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAgeGroup, profile.AgeGroup)
	}
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.recordBestEffort(ctx, domain.ActivityRecord{UserID: profile.UserID, ActivityType: "settings_updated"})
	return nil
}

// UpdateSettings merges non-empty fields into the stored profile and re-saves
// it. A missing profile is created from the update alone.
func (s *Service) UpdateSettings(ctx context.Context, update domain.UserProfile) (domain.UserProfile, error) {
	update.UserID = strings.TrimSpace(update.UserID)
	if update.UserID == "" {
		return domain.UserProfile{}, ErrUserIDRequired
	}

	current, err := s.profiles.GetProfile(ctx, update.UserID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		current = domain.UserProfile{UserID: update.UserID}
	}

	if update.Location != "" {
		current.Location = update.Location
	}
	if update.AgeGroup != "" {
		current.AgeGroup = update.AgeGroup
	}
	if update.IncomeBracket != "" {
		current.IncomeBracket = update.IncomeBracket
	}
	if update.Interests != "" {
		current.Interests = update.Interests
	}

	if err := s.SaveProfile(ctx, current); err != nil {
		return domain.UserProfile{}, err
	}
	return current, nil
}

// GetProfile returns the stored profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserProfile{}, ErrUserIDRequired
	}
	return s.profiles.GetProfile(ctx, userID)
}

// TrackReading appends a bill_read activity row and returns its session id.
func (s *Service) TrackReading(ctx context.Context, userID, billNumber string, readingSeconds int, complexity float64) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUserIDRequired
	}
	rec := domain.ActivityRecord{
		UserID:             userID,
		ActivityType:       "bill_read",
		BillNumber:         strings.TrimSpace(billNumber),
		ReadingTimeSeconds: readingSeconds,
		ComplexityScore:    complexity,
		SessionID:          uuid.NewString(),
	}
	if err := s.activity.RecordActivity(ctx, rec); err != nil {
		return "", fmt.Errorf("record reading: %w", err)
	}
	return rec.SessionID, nil
}

// Statistics aggregates the user's activity log. A storage failure degrades
// to zeroed statistics rather than an error.
func (s *Service) Statistics(ctx context.Context, userID string) (domain.ReadingStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ReadingStats{}, ErrUserIDRequired
	}

	records, err := s.activity.ListActivity(ctx, userID, 0)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("tracker: statistics degraded")
		return domain.ReadingStats{ByType: map[string]int{}}, nil
	}

	stats := domain.ReadingStats{ByType: make(map[string]int)}
	var readingSum, readingCount int
	var complexitySum float64
	var complexityCount int
	for _, rec := range records {
		stats.TotalActivities++
		stats.ByType[rec.ActivityType]++
		if rec.ActivityType == "bill_read" {
			stats.TotalBillsRead++
			if rec.ReadingTimeSeconds > 0 {
				readingSum += rec.ReadingTimeSeconds
				readingCount++
			}
			if rec.ComplexityScore > 0 {
				complexitySum += rec.ComplexityScore
				complexityCount++
			}
		}
	}
	if readingCount > 0 {
		stats.AvgReadingSeconds = float64(readingSum) / float64(readingCount)
	}
	if complexityCount > 0 {
		stats.AvgComplexity = complexitySum / float64(complexityCount)
	}
	stats.StreakDays = streakDays(records, s.now())
	return stats, nil
}

// streakDays counts consecutive days with at least one activity, ending today.
func streakDays(records []domain.ActivityRecord, now time.Time) int {
	days := make(map[string]struct{}, len(records))
	for _, rec := range records {
		days[rec.CreatedAt.UTC().Format("2006-01-02")] = struct{}{}
	}
	streak := 0
	day := now.UTC()
	for {
		if _, ok := days[day.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *Service) recordBestEffort(ctx context.Context, rec domain.ActivityRecord) {
	if err := s.activity.RecordActivity(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("type", rec.ActivityType).Msg("tracker: activity not recorded")
	}
}
