package rank

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/match"
)

// Sort returns a new slice ordered by score descending. Equal scores keep
// their original relative order, so scorer insertion order breaks ties.
func Sort(matches []match.Match) []match.Match {
	out := make([]match.Match, len(matches))
	copy(out, matches)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// WriteCSV serializes matches as UTF-8 CSV with a header row, one row per
// match, in the order given. Callers sort first when export order matters.
func WriteCSV(w io.Writer, matches []match.Match) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"title", "company", "source", "location", "url", "score", "snippet"}); err != nil {
		return err
	}

	for _, m := range matches {
		row := []string{
			m.Title,
			m.Company,
			m.Source,
			m.Location,
			m.URL,
			strconv.FormatFloat(m.Score, 'f', 2, 64),
			m.Snippet,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
