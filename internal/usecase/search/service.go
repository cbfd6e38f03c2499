package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/adapters/summarizer"
	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/metrics"
)

// ErrEmptyQuery is returned for a blank search query.
var ErrEmptyQuery = errors.New("query is required")

// ErrUpstreamUnavailable is returned when the Congress API yields no bill list.
var ErrUpstreamUnavailable = errors.New("unable to fetch bills from Congress API")

// Personalization boosts.
const (
	defaultBaseWeight = 0.5
	locationBoost     = 0.2
	interestBoost     = 0.15
)

// Page is one materialized page of search results.
type Page struct {
	Bills      []domain.EnrichedBill
	TotalFound int
	Page       int
	PerPage    int
	HasMore    bool
}

// Service runs the bill discovery pipeline:
// fetch -> rank -> (personalize) -> paginate -> enrich -> summarize.
type Service struct {
	bills      domain.BillSource
	details    domain.BillDetailSource
	ranker     domain.Ranker
	summarizer domain.Summarizer
	profiles   domain.ProfileRepo
	activity   domain.ActivityRepo
	cache      domain.Cache
	log        zerolog.Logger

	fetchLimit int
	topK       int
	perPage    int
	detailTTL  time.Duration
}

// NewService creates the search service. cache may be nil.
func NewService(
	bills domain.BillSource,
	details domain.BillDetailSource,
	ranker domain.Ranker,
	summarizer domain.Summarizer,
	profiles domain.ProfileRepo,
	activity domain.ActivityRepo,
	cache domain.Cache,
	logger zerolog.Logger,
	fetchLimit, topK, perPage int,
	detailTTL time.Duration,
) *Service {
	if fetchLimit <= 0 {
		fetchLimit = 250
	}
	if topK <= 0 {
		topK = 12
	}
	if perPage <= 0 {
		perPage = 6
	}
	return &Service{
		bills:      bills,
		details:    details,
		ranker:     ranker,
		summarizer: summarizer,
		profiles:   profiles,
		activity:   activity,
		cache:      cache,
		log:        logger,
		fetchLimit: fetchLimit,
		topK:       topK,
		perPage:    perPage,
		detailTTL:  detailTTL,
	}
}

// Search runs the plain relevance pipeline for one query.
func (s *Service) Search(ctx context.Context, query string, page, perPage int) (Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{}, ErrEmptyQuery
	}
	metrics.SearchRequestsTotal.Inc()
	start := time.Now()
	defer func() { metrics.SearchDurationSeconds.Observe(time.Since(start).Seconds()) }()

	ranked, err := s.fetchAndRank(ctx, query)
	if err != nil {
		return Page{}, err
	}
	return s.materialize(ctx, ranked, page, perPage, domain.AgeGroupAdult)
}

// PersonalizedFeed ranks against the query (or the profile's interests when
// the query is empty), re-weights by the profile's location and interests and
// summarizes for the profile's age group. A missing profile degrades to the
// plain pipeline.
func (s *Service) PersonalizedFeed(ctx context.Context, userID, query string, page, perPage int) (Page, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("search: profile lookup failed")
		}
		profile = domain.UserProfile{AgeGroup: domain.AgeGroupAdult}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		query = feedQuery(profile)
	}
	metrics.SearchRequestsTotal.Inc()
	start := time.Now()
	defer func() { metrics.SearchDurationSeconds.Observe(time.Since(start).Seconds()) }()

	ranked, err := s.fetchAndRank(ctx, query)
	if err != nil {
		return Page{}, err
	}
	ranked = Personalize(profile.Location, profile.Interests, ranked)
	return s.materialize(ctx, ranked, page, perPage, profile.AgeGroup)
}

// MyFeed builds the personalized feed from the stored profile alone and logs a
// feed view in the activity trail.
func (s *Service) MyFeed(ctx context.Context, userID string, page, perPage int) (Page, error) {
	result, err := s.PersonalizedFeed(ctx, userID, "", page, perPage)
	if err != nil {
		return Page{}, err
	}
	if s.activity != nil {
		rec := domain.ActivityRecord{UserID: userID, ActivityType: "feed_viewed"}
		if err := s.activity.RecordActivity(ctx, rec); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("search: feed activity not recorded")
		}
	}
	return result, nil
}

func (s *Service) fetchAndRank(ctx context.Context, query string) ([]domain.RankedBill, error) {
	bills, err := s.bills.FetchLatest(ctx, s.fetchLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("search: bill list fetch failed")
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err)
	}
	if len(bills) == 0 {
		return nil, ErrUpstreamUnavailable
	}

	ranked, err := s.ranker.Rank(ctx, query, bills, s.topK)
	if err != nil {
		return nil, fmt.Errorf("rank bills: %w", err)
	}
	return ranked, nil
}

func (s *Service) materialize(ctx context.Context, ranked []domain.RankedBill, page, perPage int, ageGroup string) (Page, error) {
	if perPage < 1 {
		perPage = s.perPage
	}
	slice, total, hasMore, page := Paginate(ranked, page, perPage)

	enriched := make([]domain.EnrichedBill, 0, len(slice))
	for _, rb := range slice {
		details := s.fetchDetails(ctx, rb.Bill.Number)
		enriched = append(enriched, domain.EnrichedBill{
			Number:         rb.Bill.Number,
			Title:          rb.Bill.Title,
			Summary:        s.summarize(ctx, rb.Bill, ageGroup),
			Sponsor:        details.Sponsor,
			Status:         details.Status,
			Date:           details.Date,
			RelevanceScore: rb.Score,
			URL:            rb.Bill.URL,
		})
	}

	// Selection picked the most relevant bills; the materialized page reads
	// in chronological order, most recent first.
	sort.SliceStable(enriched, func(i, j int) bool {
		return NormalizeDate(enriched[i].Date) > NormalizeDate(enriched[j].Date)
	})

	metrics.SearchResultsCount.Observe(float64(len(enriched)))
	return Page{Bills: enriched, TotalFound: total, Page: page, PerPage: perPage, HasMore: hasMore}, nil
}

// Paginate orders the ranked set by a composite key (effective score
// descending, then enrichment date ascending) and extracts the requested page.
func Paginate(ranked []domain.RankedBill, page, perPage int) (slice []domain.RankedBill, total int, hasMore bool, normPage int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	ordered := append([]domain.RankedBill(nil), ranked...)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := effectiveScore(ordered[i]), effectiveScore(ordered[j])
		if si != sj {
			return si > sj
		}
		return NormalizeDate(ordered[i].Date) < NormalizeDate(ordered[j].Date)
	})

	total = len(ordered)
	start := (page - 1) * perPage
	end := start + perPage
	if start >= total {
		return nil, total, false, page
	}
	if end > total {
		end = total
	}
	return ordered[start:end], total, end < total, page
}

// Personalize re-weights ranked bills by the user's location and interests.
// Multiple interest matches compound additively; the weight is clamped at 1.
func Personalize(location, interests string, ranked []domain.RankedBill) []domain.RankedBill {
	out := append([]domain.RankedBill(nil), ranked...)
	location = strings.ToLower(strings.TrimSpace(location))

	var terms []string
	for _, t := range strings.Split(interests, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}

	for i := range out {
		weight := out[i].Score
		if weight == 0 {
			weight = defaultBaseWeight
		}
		text := strings.ToLower(out[i].Bill.Title + " " + out[i].Bill.Description)
		if location != "" && strings.Contains(text, location) {
			weight += locationBoost
		}
		for _, term := range terms {
			if strings.Contains(text, term) {
				weight += interestBoost
			}
		}
		if weight > 1 {
			weight = 1
		}
		out[i].Personalized = weight
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Personalized > out[j].Personalized })
	return out
}

func effectiveScore(rb domain.RankedBill) float64 {
	if rb.Personalized > 0 {
		return rb.Personalized
	}
	return rb.Score
}

func (s *Service) fetchDetails(ctx context.Context, billNumber string) domain.BillDetails {
	const keyPrefix = "bill_details:"

	if s.cache != nil {
		if raw, err := s.cache.Get(keyPrefix + billNumber); err == nil {
			var details domain.BillDetails
			if err := json.Unmarshal(raw, &details); err == nil {
				metrics.IncDetailCache(true)
				return details
			}
		}
		metrics.IncDetailCache(false)
	}

	details, err := s.details.FetchDetails(ctx, billNumber)
	if err != nil {
		s.log.Warn().Err(err).Str("bill", billNumber).Msg("search: detail fetch degraded")
		return domain.BillDetails{Sponsor: "N/A", Status: "N/A", Date: "N/A"}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(details); err == nil {
			if err := s.cache.Set(keyPrefix+billNumber, raw, s.detailTTL); err != nil {
				s.log.Debug().Err(err).Msg("search: detail cache write failed")
			}
		}
	}
	return details
}

func (s *Service) summarize(ctx context.Context, bill domain.BillSummary, ageGroup string) string {
	summary, err := s.summarizer.Summarize(ctx, bill, ageGroup)
	if err != nil {
		s.log.Warn().Err(err).Str("bill", bill.Number).Msg("search: summarization degraded")
		metrics.SummaryFallbacksTotal.Inc()
		return summarizer.TruncateFallback(bill.Description)
	}
	return summary
}

func feedQuery(profile domain.UserProfile) string {
	var parts []string
	for _, t := range strings.Split(profile.Interests, ",") {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		if loc := strings.TrimSpace(profile.Location); loc != "" {
			return loc + " legislation"
		}
		return "congress legislation"
	}
	return strings.Join(parts, " ")
}
