package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/metrics"
)

// Postgres implements the repositories on pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.ProfileRepo = (*Postgres)(nil)
var _ domain.ActivityRepo = (*Postgres)(nil)
var _ domain.ProgressionRepo = (*Postgres)(nil)

// NewPostgres creates the database adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// SaveProfile upserts a user profile; the new row fully replaces prior values.
func (p *Postgres) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	ageGroup := strings.TrimSpace(profile.AgeGroup)
	if ageGroup == "" {
		ageGroup = domain.AgeGroupAdult
	}

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO user_profiles (user_id, location, age_group, income_bracket, interests, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
    location = EXCLUDED.location,
    age_group = EXCLUDED.age_group,
    income_bracket = EXCLUDED.income_bracket,
    interests = EXCLUDED.interests,
    updated_at = now()
`, profile.UserID, profile.Location, ageGroup, profile.IncomeBracket, profile.Interests)
	metrics.ObserveNetworkRequest("postgres", "profile_upsert", "user_profiles", start, err)
	return err
}

// GetProfile returns a user profile or domain.ErrProfileNotFound.
func (p *Postgres) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
SELECT user_id, location, age_group, income_bracket, interests, created_at, updated_at
FROM user_profiles
WHERE user_id = $1
`, userID)

	var profile domain.UserProfile
	err := row.Scan(&profile.UserID, &profile.Location, &profile.AgeGroup,
		&profile.IncomeBracket, &profile.Interests, &profile.CreatedAt, &profile.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "profile_get", "user_profiles", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// RecordActivity appends one row to the activity log. Rows are never updated.
func (p *Postgres) RecordActivity(ctx context.Context, rec domain.ActivityRecord) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	var billNumber sql.NullString
	if rec.BillNumber != "" {
		billNumber = sql.NullString{String: rec.BillNumber, Valid: true}
	}
	var readingTime sql.NullInt32
	if rec.ReadingTimeSeconds > 0 {
		readingTime = sql.NullInt32{Int32: int32(rec.ReadingTimeSeconds), Valid: true}
	}
	var complexity sql.NullFloat64
	if rec.ComplexityScore > 0 {
		complexity = sql.NullFloat64{Float64: rec.ComplexityScore, Valid: true}
	}

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO user_activity (user_id, activity_type, bill_number, reading_time_seconds, complexity_score, session_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
`, rec.UserID, rec.ActivityType, billNumber, readingTime, complexity, rec.SessionID)
	metrics.ObserveNetworkRequest("postgres", "activity_insert", "user_activity", start, err)
	return err
}

// ListActivity returns the newest activity rows for a user.
func (p *Postgres) ListActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityRecord, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 500
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, user_id, activity_type, COALESCE(bill_number, ''), COALESCE(reading_time_seconds, 0),
       COALESCE(complexity_score, 0), COALESCE(session_id, ''), created_at
FROM user_activity
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	metrics.ObserveNetworkRequest("postgres", "activity_list", "user_activity", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ActivityType, &rec.BillNumber,
			&rec.ReadingTimeSeconds, &rec.ComplexityScore, &rec.SessionID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertStep replaces the stored progression row for a bill with the latest
// classified step.
func (p *Postgres) UpsertStep(ctx context.Context, billNumber string, step domain.ProgressionStep) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO bill_progression (bill_number, status, action_date, description, stage, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (bill_number) DO UPDATE SET
    status = EXCLUDED.status,
    action_date = EXCLUDED.action_date,
    description = EXCLUDED.description,
    stage = EXCLUDED.stage,
    updated_at = now()
`, billNumber, step.Status, step.Date, step.Description, step.Stage)
	metrics.ObserveNetworkRequest("postgres", "progression_upsert", "bill_progression", start, err)
	return err
}
