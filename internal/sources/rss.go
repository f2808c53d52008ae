package sources

import (
	"context"
	"fmt"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"github.com/mmcdole/gofeed"
)

// rssEntryLimit caps how many entries a single feed contributes.
const rssEntryLimit = 40

// RSS fetches postings from a single RSS/Atom feed. Job boards expose
// search results as feeds (Reed, Indeed, EURES), so the feed URL usually
// already encodes the query.
type RSS struct {
	parser  *gofeed.Parser
	limiter *HostLimiter
	name    string
	url     string
}

func NewRSS(name, url string, limiter *HostLimiter) *RSS {
	parser := gofeed.NewParser()
	parser.UserAgent = defaultUserAgent

	return &RSS{
		parser:  parser,
		limiter: limiter,
		name:    name,
		url:     url,
	}
}

func (r *RSS) Name() string { return r.name }

func (r *RSS) Fetch(ctx context.Context) ([]jobs.Record, error) {
	if err := r.limiter.WaitURL(ctx, r.url); err != nil {
		return nil, err
	}

	feed, err := r.parser.ParseURLWithContext(r.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if len(items) > rssEntryLimit {
		items = items[:rssEntryLimit]
	}

	records := make([]jobs.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		company := "Unknown"
		if item.Author != nil && item.Author.Name != "" {
			company = item.Author.Name
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		records = append(records, jobs.Normalize(
			r.name,
			item.Title,
			company,
			"",
			item.Link,
			description,
		))
	}

	return records, nil
}
