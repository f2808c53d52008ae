package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
)

const (
	englishJobsBaseURL = "https://englishjobs.de"
	// englishJobsLimit keeps the scrape polite; listing pages are only a
	// discovery aid, not a bulk source.
	englishJobsLimit = 10
)

// EnglishJobs scrapes the englishjobs.de listing page for one keyword.
// The board has no API and no detail payloads, so records carry a fixed
// placeholder description.
type EnglishJobs struct {
	client  *http.Client
	limiter *HostLimiter
	baseURL string
	keyword string
}

func NewEnglishJobs(keyword string, limiter *HostLimiter) *EnglishJobs {
	return &EnglishJobs{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		baseURL: englishJobsBaseURL,
		keyword: keyword,
	}
}

func (e *EnglishJobs) Name() string { return "englishjobs.de" }

func (e *EnglishJobs) Fetch(ctx context.Context) ([]jobs.Record, error) {
	listURL := fmt.Sprintf("%s/jobs/%s", e.baseURL, strings.ToLower(e.keyword))

	if err := e.limiter.WaitURL(ctx, listURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	return e.parseListing(doc), nil
}

func (e *EnglishJobs) parseListing(doc *goquery.Document) []jobs.Record {
	var records []jobs.Record

	doc.Find("div.job-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		title := jobs.CleanText(item.Find("h3").First().Text())
		if title == "" {
			title = "HR Job"
		}

		link, _ := item.Find("a").First().Attr("href")
		link = strings.TrimSpace(link)
		if strings.HasPrefix(link, "/") {
			link = e.baseURL + link
		}

		records = append(records, jobs.Normalize(
			e.Name(),
			title,
			"N/A",
			"Germany",
			link,
			"HR / leadership role",
		))

		return len(records) < englishJobsLimit
	})

	return records
}
