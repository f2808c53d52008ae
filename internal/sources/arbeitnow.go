package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"github.com/mitchellh/mapstructure"
)

const arbeitnowAPIURL = "https://www.arbeitnow.com/api/job-board-api"

// arbeitnowCountries are the markets the Arbeitnow board actually covers;
// other configured countries are skipped without a request.
var arbeitnowCountries = map[string]bool{
	"Germany":     true,
	"Netherlands": true,
	"Spain":       true,
	"Portugal":    true,
}

// arbeitnowJob is the loose per-item payload shape of the Arbeitnow API.
type arbeitnowJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Arbeitnow fetches postings from the Arbeitnow job board API, one request
// per supported country.
type Arbeitnow struct {
	client    *http.Client
	limiter   *HostLimiter
	apiURL    string
	keywords  string
	countries []string
}

func NewArbeitnow(keywords string, countries []string, limiter *HostLimiter) *Arbeitnow {
	return &Arbeitnow{
		client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   limiter,
		apiURL:    arbeitnowAPIURL,
		keywords:  keywords,
		countries: countries,
	}
}

func (a *Arbeitnow) Name() string { return "arbeitnow" }

func (a *Arbeitnow) Fetch(ctx context.Context) ([]jobs.Record, error) {
	var out []jobs.Record

	for _, country := range a.countries {
		if !arbeitnowCountries[country] {
			continue
		}

		records, err := a.fetchCountry(ctx, country)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", country, err)
		}
		out = append(out, records...)
	}

	return out, nil
}

func (a *Arbeitnow) fetchCountry(ctx context.Context, country string) ([]jobs.Record, error) {
	if err := a.limiter.WaitURL(ctx, a.apiURL); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("keywords", a.keywords)
	q.Set("location", country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get job board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job board status: %s", resp.Status)
	}

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode job board response: %w", err)
	}

	return decodeArbeitnowItems(payload.Data)
}

// decodeArbeitnowItems converts the loose payload maps into canonical
// records at the fetcher boundary; nothing downstream sees the API shape.
func decodeArbeitnowItems(items []map[string]any) ([]jobs.Record, error) {
	records := make([]jobs.Record, 0, len(items))

	for _, item := range items {
		var job arbeitnowJob
		cfg := &mapstructure.DecoderConfig{
			Result:           &job,
			TagName:          "json",
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("decode job item: %w", err)
		}

		records = append(records, jobs.Normalize(
			"arbeitnow",
			job.Title,
			job.Company,
			job.Location,
			job.URL,
			job.Description,
		))
	}

	return records, nil
}
