package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/metrics"
)

// The service tracks House bills of the 118th Congress.
const (
	congressNumber = "118"
	billType       = "hr"
)

// Client talks to the Congress.gov v3 API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

var _ domain.BillSource = (*Client)(nil)
var _ domain.BillDetailSource = (*Client)(nil)

// NewClient creates the Congress API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type listResponse struct {
	Bills []struct {
		Number       string `json:"number"`
		Title        string `json:"title"`
		LatestAction *struct {
			Text       string `json:"text"`
			ActionDate string `json:"actionDate"`
		} `json:"latestAction"`
	} `json:"bills"`
}

// FetchLatest returns the current bill list, newest updates first.
func (c *Client) FetchLatest(ctx context.Context, limit int) ([]domain.BillSummary, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "updateDate+desc")
	endpoint := fmt.Sprintf("%s/bill/%s/%s?%s", c.baseURL, congressNumber, billType, params.Encode())

	var parsed listResponse
	if err := c.get(ctx, endpoint, "bill_list", &parsed); err != nil {
		return nil, fmt.Errorf("fetch bill list: %w", err)
	}

	bills := make([]domain.BillSummary, 0, len(parsed.Bills))
	for _, b := range parsed.Bills {
		// The title is always part of the description, so ranking text is
		// never empty for a titled bill.
		description := b.Title
		if b.LatestAction != nil && b.LatestAction.Text != "" {
			description += " " + b.LatestAction.Text
		}
		bills = append(bills, domain.BillSummary{
			Number:      b.Number,
			Title:       b.Title,
			Description: description,
			URL:         BillURL(b.Number),
		})
	}
	return bills, nil
}

type detailResponse struct {
	Bill struct {
		Sponsors []struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Party     string `json:"party"`
			State     string `json:"state"`
		} `json:"sponsors"`
		LatestAction *struct {
			Text       string `json:"text"`
			ActionDate string `json:"actionDate"`
		} `json:"latestAction"`
	} `json:"bill"`
}

// FetchDetails returns sponsor and latest-action metadata for one bill.
func (c *Client) FetchDetails(ctx context.Context, billNumber string) (domain.BillDetails, error) {
	endpoint := fmt.Sprintf("%s/bill/%s/%s/%s?api_key=%s",
		c.baseURL, congressNumber, billType, url.PathEscape(billNumber), url.QueryEscape(c.apiKey))

	var parsed detailResponse
	if err := c.get(ctx, endpoint, "bill_detail", &parsed); err != nil {
		return domain.BillDetails{}, fmt.Errorf("fetch bill %s details: %w", billNumber, err)
	}

	details := domain.BillDetails{Sponsor: "N/A", Status: "N/A", Date: "N/A"}
	if len(parsed.Bill.Sponsors) > 0 {
		details.Sponsor = formatSponsor(
			parsed.Bill.Sponsors[0].FirstName,
			parsed.Bill.Sponsors[0].LastName,
			parsed.Bill.Sponsors[0].Party,
			parsed.Bill.Sponsors[0].State,
		)
	}
	if parsed.Bill.LatestAction != nil {
		if parsed.Bill.LatestAction.Text != "" {
			details.Status = parsed.Bill.LatestAction.Text
		}
		if parsed.Bill.LatestAction.ActionDate != "" {
			details.Date = parsed.Bill.LatestAction.ActionDate
		}
	}
	return details, nil
}

type actionsResponse struct {
	Actions []struct {
		ActionDate string `json:"actionDate"`
		Text       string `json:"text"`
	} `json:"actions"`
}

// FetchActions returns the bill's action history, most recent first as the API
// delivers it.
func (c *Client) FetchActions(ctx context.Context, billNumber string, limit int) ([]domain.BillAction, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/bill/%s/%s/%s/actions?%s",
		c.baseURL, congressNumber, billType, url.PathEscape(billNumber), params.Encode())

	var parsed actionsResponse
	if err := c.get(ctx, endpoint, "bill_actions", &parsed); err != nil {
		return nil, fmt.Errorf("fetch bill %s actions: %w", billNumber, err)
	}

	actions := make([]domain.BillAction, 0, len(parsed.Actions))
	for _, a := range parsed.Actions {
		actions = append(actions, domain.BillAction{Date: a.ActionDate, Text: a.Text})
	}
	return actions, nil
}

func (c *Client) get(ctx context.Context, endpoint, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("congress", operation, billType, start, err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("congress", operation, billType, start, err)
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		metrics.ObserveNetworkRequest("congress", operation, billType, start, err)
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.ObserveNetworkRequest("congress", operation, billType, start, err)
		return fmt.Errorf("decode response: %w", err)
	}
	metrics.ObserveNetworkRequest("congress", operation, billType, start, nil)
	return nil
}

// BillURL derives the canonical congress.gov link for a House bill number.
func BillURL(billNumber string) string {
	return fmt.Sprintf("https://www.congress.gov/bill/118th-congress/house-bill/%s", billNumber)
}

func formatSponsor(firstName, lastName, party, state string) string {
	fullName := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	switch {
	case fullName != "" && party != "" && state != "":
		return fmt.Sprintf("%s (%s-%s)", fullName, party, state)
	case fullName != "":
		return fullName
	default:
		return "N/A"
	}
}
