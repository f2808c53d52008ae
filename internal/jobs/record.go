package jobs

import "fmt"

// Record is the canonical job posting shape every source is normalized
// into. All fields default to the empty string, never to a missing value,
// so downstream consumers can index fields without nil checks.
type Record struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Normalize builds a canonical Record from per-source field values.
// It performs no validation; fetchers are responsible for handing over
// well-formed values, and absent upstream fields arrive here as "".
func Normalize(source, title, company, location, url, description string) Record {
	return Record{
		Source:      source,
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         url,
		Description: description,
	}
}

// Fingerprint returns a stable identity for correlating feedback across
// sessions: the URL when present, otherwise the title+company pair.
func (r Record) Fingerprint() string {
	if r.URL != "" {
		return r.URL
	}
	return fmt.Sprintf("%s @ %s", r.Title, r.Company)
}
