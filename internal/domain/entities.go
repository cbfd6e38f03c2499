package domain

import "time"

// BillSummary is the normalized snapshot of one bill from the Congress API.
type BillSummary struct {
	Number      string
	Title       string
	Description string
	URL         string
}

// RankedBill carries a bill with its cosine similarity to the search query.
type RankedBill struct {
	Bill  BillSummary
	Score float64
	// Personalized is set by the personalization stage; zero until then.
	Personalized float64
	// Date is filled during enrichment and used only for ordering.
	Date string
}

// BillDetails holds sponsor and latest-action metadata for one bill.
type BillDetails struct {
	Sponsor string
	Status  string
	Date    string
}

// EnrichedBill is the unit returned to API clients.
type EnrichedBill struct {
	Number         string  `json:"number"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Sponsor        string  `json:"sponsor"`
	Status         string  `json:"status"`
	Date           string  `json:"date"`
	RelevanceScore float64 `json:"relevance_score"`
	URL            string  `json:"url"`
}

// BillAction is one entry of a bill's action history.
type BillAction struct {
	Date string
	Text string
}

// UserProfile describes a stored user. The newest save fully replaces prior values.
type UserProfile struct {
	UserID        string
	Location      string
	AgeGroup      string
	IncomeBracket string
	Interests     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Age groups accepted in UserProfile.AgeGroup.
const (
	AgeGroupChild  = "child"
	AgeGroupTeen   = "teen"
	AgeGroupAdult  = "adult"
	AgeGroupSenior = "senior"
)

// ActivityRecord is one append-only row of the user activity log.
type ActivityRecord struct {
	ID                 int64
	UserID             string
	ActivityType       string
	BillNumber         string
	ReadingTimeSeconds int
	ComplexityScore    float64
	SessionID          string
	CreatedAt          time.Time
}

// ProgressionStep is one classified step of a bill's lifecycle.
type ProgressionStep struct {
	Date        string `json:"date"`
	Status      string `json:"status"`
	Stage       int    `json:"stage"`
	Description string `json:"description"`
}

// ReadingStats aggregates a user's activity log.
type ReadingStats struct {
	TotalBillsRead    int
	TotalActivities   int
	AvgReadingSeconds float64
	AvgComplexity     float64
	StreakDays        int
	ByType            map[string]int
}
