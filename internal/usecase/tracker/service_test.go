package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
)

type stubProfiles struct {
	saved  []domain.UserProfile
	stored map[string]domain.UserProfile
}

func (s *stubProfiles) SaveProfile(_ context.Context, profile domain.UserProfile) error {
	s.saved = append(s.saved, profile)
	if s.stored == nil {
		s.stored = map[string]domain.UserProfile{}
	}
	s.stored[profile.UserID] = profile
	return nil
}

func (s *stubProfiles) GetProfile(_ context.Context, userID string) (domain.UserProfile, error) {
	if p, ok := s.stored[userID]; ok {
		return p, nil
	}
	return domain.UserProfile{}, domain.ErrProfileNotFound
}

type stubActivity struct {
	records []domain.ActivityRecord
	err     error
}

func (s *stubActivity) RecordActivity(_ context.Context, rec domain.ActivityRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubActivity) ListActivity(context.Context, string, int) ([]domain.ActivityRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func newService(profiles *stubProfiles, activity *stubActivity) *Service {
	return NewService(profiles, activity, zerolog.Nop())
}

func TestSaveProfileDefaultsAgeGroup(t *testing.T) {
	profiles := &stubProfiles{}
	svc := newService(profiles, &stubActivity{})
	err := svc.SaveProfile(context.Background(), domain.UserProfile{UserID: "u1", Location: "Ohio"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.saved[0].AgeGroup != domain.AgeGroupAdult {
		t.Fatalf("expected adult default, got %q", profiles.saved[0].AgeGroup)
	}
}

func TestSaveProfileRejectsUnknownAgeGroup(t *testing.T) {
	svc := newService(&stubProfiles{}, &stubActivity{})
	err := svc.SaveProfile(context.Background(), domain.UserProfile{UserID: "u1", AgeGroup: "elder"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSaveProfileRequiresUserID(t *testing.T) {
	svc := newService(&stubProfiles{}, &stubActivity{})
	if err := svc.SaveProfile(context.Background(), domain.UserProfile{}); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestUpdateSettingsMergesIntoExisting(t *testing.T) {
	profiles := &stubProfiles{stored: map[string]domain.UserProfile{
		"u1": {UserID: "u1", Location: "Ohio", AgeGroup: domain.AgeGroupTeen, Interests: "education"},
	}}
	svc := newService(profiles, &stubActivity{})

	updated, err := svc.UpdateSettings(context.Background(), domain.UserProfile{UserID: "u1", Location: "Texas"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Location != "Texas" {
		t.Fatalf("expected updated location, got %q", updated.Location)
	}
	if updated.AgeGroup != domain.AgeGroupTeen || updated.Interests != "education" {
		t.Fatalf("expected untouched fields preserved, got %+v", updated)
	}
}

func TestUpdateSettingsCreatesMissingProfile(t *testing.T) {
	profiles := &stubProfiles{}
	svc := newService(profiles, &stubActivity{})
	updated, err := svc.UpdateSettings(context.Background(), domain.UserProfile{UserID: "u2", Interests: "energy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Interests != "energy" || updated.AgeGroup != domain.AgeGroupAdult {
		t.Fatalf("expected created profile with defaults, got %+v", updated)
	}
}

func TestTrackReadingAppendsRecord(t *testing.T) {
	activity := &stubActivity{}
	svc := newService(&stubProfiles{}, activity)

	session, err := svc.TrackReading(context.Background(), "u1", "1234", 95, 10.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session == "" {
		t.Fatalf("expected session id")
	}
	rec := activity.records[0]
	if rec.ActivityType != "bill_read" || rec.BillNumber != "1234" || rec.ReadingTimeSeconds != 95 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestStatisticsAggregatesAndStreak(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	activity := &stubActivity{records: []domain.ActivityRecord{
		{ActivityType: "bill_read", ReadingTimeSeconds: 60, ComplexityScore: 10, CreatedAt: now},
		{ActivityType: "bill_read", ReadingTimeSeconds: 120, ComplexityScore: 14, CreatedAt: now.AddDate(0, 0, -1)},
		{ActivityType: "feed_viewed", CreatedAt: now.AddDate(0, 0, -2)},
		// Gap: nothing three days ago.
		{ActivityType: "bill_read", CreatedAt: now.AddDate(0, 0, -4)},
	}}
	svc := newService(&stubProfiles{}, activity)
	svc.now = func() time.Time { return now }

	stats, err := svc.Statistics(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalBillsRead != 3 || stats.TotalActivities != 4 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AvgReadingSeconds != 90 {
		t.Fatalf("expected avg reading 90s, got %v", stats.AvgReadingSeconds)
	}
	if stats.AvgComplexity != 12 {
		t.Fatalf("expected avg complexity 12, got %v", stats.AvgComplexity)
	}
	if stats.StreakDays != 3 {
		t.Fatalf("expected 3-day streak, got %d", stats.StreakDays)
	}
	if stats.ByType["bill_read"] != 3 || stats.ByType["feed_viewed"] != 1 {
		t.Fatalf("unexpected breakdown %+v", stats.ByType)
	}
}

func TestStatisticsDegradesOnStorageFailure(t *testing.T) {
	activity := &stubActivity{err: errors.New("db down")}
	svc := newService(&stubProfiles{}, activity)
	stats, err := svc.Statistics(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected degraded zeros, got error %v", err)
	}
	if stats.TotalActivities != 0 || stats.StreakDays != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}
