// Package resume loads the candidate's résumé text used as the query
// document for scoring.
package resume

import (
	"fmt"
	"os"
	"strings"
)

// Load reads the résumé from a plain-text file. A file with no readable
// text is an error: every downstream score would be meaningless.
func Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume file: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("resume file %s contains no readable text", path)
	}

	return text, nil
}
