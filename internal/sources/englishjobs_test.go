package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const listingItem = `<div class="job-item"><h3>%s</h3><a href="%s">details</a></div>`

func TestEnglishJobsParseListing(t *testing.T) {
	html := `<html><body>` +
		fmt.Sprintf(listingItem, "Senior HR Manager", "/job/123") +
		fmt.Sprintf(listingItem, "", "https://other.example/job/9") +
		`</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	fetcher := NewEnglishJobs("hr", NewHostLimiter(100, 10))
	records := fetcher.parseListing(doc)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Senior HR Manager" {
		t.Errorf("unexpected title: %q", records[0].Title)
	}
	if records[0].URL != "https://englishjobs.de/job/123" {
		t.Errorf("relative link not resolved: %q", records[0].URL)
	}
	if records[0].Location != "Germany" || records[0].Company != "N/A" {
		t.Errorf("placeholder fields missing: %+v", records[0])
	}
	if records[1].Title != "HR Job" {
		t.Errorf("expected fallback title, got %q", records[1].Title)
	}
	if records[1].URL != "https://other.example/job/9" {
		t.Errorf("absolute link should pass through: %q", records[1].URL)
	}
}

func TestEnglishJobsParseListingCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 25; i++ {
		sb.WriteString(fmt.Sprintf(listingItem, fmt.Sprintf("HR Role %d", i), fmt.Sprintf("/job/%d", i)))
	}
	sb.WriteString("</body></html>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}

	fetcher := NewEnglishJobs("hr", NewHostLimiter(100, 10))
	records := fetcher.parseListing(doc)

	if len(records) != englishJobsLimit {
		t.Errorf("expected cap at %d records, got %d", englishJobsLimit, len(records))
	}
}

func TestEnglishJobsFetch(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `<html><body>`+
			fmt.Sprintf(listingItem, "HR Director", "/job/1")+
			`</body></html>`)
	}))
	defer server.Close()

	fetcher := NewEnglishJobs("HR", NewHostLimiter(100, 10))
	fetcher.baseURL = server.URL

	records, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/jobs/hr" {
		t.Errorf("keyword not lowercased in path: %q", gotPath)
	}
	if len(records) != 1 || records[0].Title != "HR Director" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestEnglishJobsFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewEnglishJobs("hr", NewHostLimiter(100, 10))
	fetcher.baseURL = server.URL

	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
