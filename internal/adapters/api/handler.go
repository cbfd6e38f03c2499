package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/analysis"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/progression"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/search"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/tracker"
)

// ReadinessProber reports whether the embedding collaborator is reachable.
type ReadinessProber interface {
	Ready(ctx context.Context) error
}

// Handler exposes the bill discovery API over HTTP.
type Handler struct {
	search      *search.Service
	tracker     *tracker.Service
	progression *progression.Service
	prober      ReadinessProber
	log         zerolog.Logger
}

// NewHandler creates the handler.
func NewHandler(searchSvc *search.Service, trackerSvc *tracker.Service, progressionSvc *progression.Service, prober ReadinessProber, logger zerolog.Logger) *Handler {
	return &Handler{
		search:      searchSvc,
		tracker:     trackerSvc,
		progression: progressionSvc,
		prober:      prober,
		log:         logger,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/models_ready", h.modelsReady)

	r.Post("/search_bills", h.searchBills)
	r.Post("/bill_progression", h.billProgression)
	r.Post("/voting_heatmap", h.votingHeatmap)
	r.Post("/analyze_complexity", h.analyzeComplexity)
	r.Post("/impact_calculator", h.impactCalculator)
	r.Post("/personalized_feed", h.personalizedFeed)
	r.Post("/my_feed", h.myFeed)
	r.Post("/save_user_profile", h.saveUserProfile)
	r.Post("/update_user_settings", h.updateUserSettings)
	r.Post("/get_user_profile", h.getUserProfile)
	r.Post("/user_statistics", h.userStatistics)
	r.Post("/track_reading", h.trackReading)
}

type searchRequest struct {
	Query   string `json:"query"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

type searchResponse struct {
	Query      string                `json:"query"`
	Bills      []domain.EnrichedBill `json:"bills"`
	TotalFound int                   `json:"total_found"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	HasMore    bool                  `json:"has_more"`
	Message    string                `json:"message,omitempty"`
}

func (h *Handler) searchBills(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	page, err := h.search.Search(r.Context(), req.Query, req.Page, req.PerPage)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeSearchPage(w, req.Query, page)
}

func (h *Handler) writeSearchPage(w http.ResponseWriter, query string, page search.Page) {
	resp := searchResponse{
		Query:      strings.TrimSpace(query),
		Bills:      page.Bills,
		TotalFound: page.TotalFound,
		Page:       page.Page,
		PerPage:    page.PerPage,
		HasMore:    page.HasMore,
	}
	if resp.Bills == nil {
		resp.Bills = []domain.EnrichedBill{}
	}
	if len(resp.Bills) == 0 {
		resp.Message = "No relevant bills found for your query"
	}
	writeJSON(w, resp)
}

type billRequest struct {
	BillNumber string `json:"bill_number"`
}

func (h *Handler) billProgression(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !h.decode(w, r, &req) {
		return
	}
	steps, err := h.progression.Progression(r.Context(), req.BillNumber)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if steps == nil {
		steps = []domain.ProgressionStep{}
	}
	writeJSON(w, map[string]any{
		"bill_number":  req.BillNumber,
		"progression":  steps,
		"total_stages": progression.TotalStages,
	})
}

func (h *Handler) votingHeatmap(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.BillNumber) == "" {
		writeError(w, http.StatusBadRequest, "bill_number is required")
		return
	}
	writeJSON(w, map[string]any{
		"bill_number": req.BillNumber,
		"voting_data": analysis.VotingHeatmap(req.BillNumber),
		"data_type":   "synthetic",
	})
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyzeComplexity(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, analysis.AnalyzeComplexity(req.Text))
}

func (h *Handler) impactCalculator(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, map[string]any{"impact": analysis.AnalyzeImpact(req.Text)})
}

type feedRequest struct {
	UserID  string `json:"user_id"`
	Query   string `json:"query"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

func (h *Handler) personalizedFeed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	page, err := h.search.PersonalizedFeed(r.Context(), req.UserID, req.Query, req.Page, req.PerPage)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeSearchPage(w, req.Query, page)
}

func (h *Handler) myFeed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	page, err := h.search.MyFeed(r.Context(), req.UserID, req.Page, req.PerPage)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeSearchPage(w, "", page)
}

type profileRequest struct {
	UserID        string `json:"user_id"`
	Location      string `json:"location"`
	AgeGroup      string `json:"age_group"`
	IncomeBracket string `json:"income_bracket"`
	Interests     string `json:"interests"`
}

func (req profileRequest) toDomain() domain.UserProfile {
	return domain.UserProfile{
		UserID:        req.UserID,
		Location:      req.Location,
		AgeGroup:      req.AgeGroup,
		IncomeBracket: req.IncomeBracket,
		Interests:     req.Interests,
	}
}

func (h *Handler) saveUserProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.tracker.SaveProfile(r.Context(), req.toDomain()); err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) updateUserSettings(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, err := h.tracker.UpdateSettings(r.Context(), req.toDomain())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]any{"status": "ok", "profile": profileResponse(updated)})
}

type userRequest struct {
	UserID string `json:"user_id"`
}

func profileResponse(p domain.UserProfile) map[string]any {
	return map[string]any{
		"user_id":        p.UserID,
		"location":       p.Location,
		"age_group":      p.AgeGroup,
		"income_bracket": p.IncomeBracket,
		"interests":      p.Interests,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

func (h *Handler) getUserProfile(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := h.tracker.GetProfile(r.Context(), req.UserID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, profileResponse(profile))
}

func (h *Handler) userStatistics(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}
	stats, err := h.tracker.Statistics(r.Context(), req.UserID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"total_bills_read":    stats.TotalBillsRead,
		"total_activities":    stats.TotalActivities,
		"avg_reading_seconds": stats.AvgReadingSeconds,
		"avg_complexity":      stats.AvgComplexity,
		"streak_days":         stats.StreakDays,
		"activity_breakdown":  stats.ByType,
	})
}

type trackReadingRequest struct {
	UserID             string  `json:"user_id"`
	BillNumber         string  `json:"bill_number"`
	ReadingTimeSeconds int     `json:"reading_time_seconds"`
	ComplexityScore    float64 `json:"complexity_score"`
}

func (h *Handler) trackReading(w http.ResponseWriter, r *http.Request) {
	var req trackReadingRequest
	if !h.decode(w, r, &req) {
		return
	}
	sessionID, err := h.tracker.TrackReading(r.Context(), req.UserID, req.BillNumber, req.ReadingTimeSeconds, req.ComplexityScore)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok", "session_id": sessionID})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (h *Handler) modelsReady(w http.ResponseWriter, r *http.Request) {
	if err := h.prober.Ready(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ready":  false,
			"status": "Models not ready: " + err.Error(),
		})
		return
	}
	writeJSON(w, map[string]any{"ready": true, "status": "Models loaded successfully"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeFailure maps usecase errors onto the response taxonomy: bad input is
// 400, a missing profile 404, upstream bill-list failure 503, anything else a
// generic 500.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, tracker.ErrUserIDRequired),
		errors.Is(err, tracker.ErrInvalidAgeGroup),
		errors.Is(err, progression.ErrBillNumberRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, search.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, search.ErrUpstreamUnavailable.Error())
	default:
		h.log.Error().Err(err).Msg("api: request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
