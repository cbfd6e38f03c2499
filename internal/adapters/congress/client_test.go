package congress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchLatestNormalizesBills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bill/118/hr" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api key param")
		}
		if r.URL.Query().Get("limit") != "250" {
			t.Fatalf("expected limit param, got %q", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bills":[
			{"number":"1234","title":"Clean Water Act Update","latestAction":{"text":"Referred to committee.","actionDate":"2024-02-01"}},
			{"number":"99","title":"Untouched Bill"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second)
	bills, err := c.FetchLatest(context.Background(), 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(bills))
	}
	if bills[0].Description != "Clean Water Act Update Referred to committee." {
		t.Fatalf("expected title+action description, got %q", bills[0].Description)
	}
	if bills[1].Description != "Untouched Bill" {
		t.Fatalf("expected title-only description, got %q", bills[1].Description)
	}
	if bills[0].URL != "https://www.congress.gov/bill/118th-congress/house-bill/1234" {
		t.Fatalf("unexpected url %q", bills[0].URL)
	}
}

func TestFetchLatestErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second)
	if _, err := c.FetchLatest(context.Background(), 10); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestFetchDetailsSponsorFormatting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bill/118/hr/1234" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bill":{
			"sponsors":[{"firstName":"Jane","lastName":"Doe","party":"D","state":"CA"}],
			"latestAction":{"text":"Passed House.","actionDate":"2024-03-04"}
		}}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second)
	details, err := c.FetchDetails(context.Background(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Sponsor != "Jane Doe (D-CA)" {
		t.Fatalf("unexpected sponsor %q", details.Sponsor)
	}
	if details.Status != "Passed House." || details.Date != "2024-03-04" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestFetchDetailsSentinelsWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bill":{}}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second)
	details, err := c.FetchDetails(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Sponsor != "N/A" || details.Status != "N/A" || details.Date != "N/A" {
		t.Fatalf("expected sentinels, got %+v", details)
	}
}

func TestFormatSponsor(t *testing.T) {
	cases := []struct {
		first, last, party, state, want string
	}{
		{"Jane", "Doe", "D", "CA", "Jane Doe (D-CA)"},
		{"Jane", "Doe", "", "CA", "Jane Doe"},
		{"", "Doe", "R", "TX", "Doe (R-TX)"},
		{"", "", "", "", "N/A"},
	}
	for _, tc := range cases {
		if got := formatSponsor(tc.first, tc.last, tc.party, tc.state); got != tc.want {
			t.Fatalf("formatSponsor(%q,%q,%q,%q) = %q, want %q",
				tc.first, tc.last, tc.party, tc.state, got, tc.want)
		}
	}
}

func TestFetchActions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bill/118/hr/1234/actions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"actions":[
			{"actionDate":"2024-03-01","text":"Passed the House."},
			{"actionDate":"2024-01-05","text":"Introduced in House."}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second)
	actions, err := c.FetchActions(context.Background(), "1234", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 2 || actions[0].Text != "Passed the House." {
		t.Fatalf("unexpected actions %+v", actions)
	}
}
