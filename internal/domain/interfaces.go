package domain

import (
	"context"
	"time"
)

// BillSource fetches the current list of bills from the Congress API.
type BillSource interface {
	FetchLatest(ctx context.Context, limit int) ([]BillSummary, error)
}

// BillDetailSource fetches per-bill sponsor/status metadata and action history.
type BillDetailSource interface {
	FetchDetails(ctx context.Context, billNumber string) (BillDetails, error)
	FetchActions(ctx context.Context, billNumber string, limit int) ([]BillAction, error)
}

// Ranker scores candidate bills against a query.
type Ranker interface {
	Rank(ctx context.Context, query string, bills []BillSummary, topK int) ([]RankedBill, error)
}

// Summarizer produces a short, age-appropriate summary of a bill.
type Summarizer interface {
	Summarize(ctx context.Context, bill BillSummary, ageGroup string) (string, error)
}

// ProfileRepo manages user profiles.
type ProfileRepo interface {
	SaveProfile(ctx context.Context, profile UserProfile) error
	GetProfile(ctx context.Context, userID string) (UserProfile, error)
}

// ActivityRepo manages the append-only user activity log.
type ActivityRepo interface {
	RecordActivity(ctx context.Context, rec ActivityRecord) error
	ListActivity(ctx context.Context, userID string, limit int) ([]ActivityRecord, error)
}

// ProgressionRepo stores the latest classified progression step per bill.
type ProgressionRepo interface {
	UpsertStep(ctx context.Context, billNumber string, step ProgressionStep) error
}

// Cache is a simple TTL byte store.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
