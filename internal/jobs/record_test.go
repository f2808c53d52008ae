package jobs

import "testing"

func TestNormalizeFillsEveryField(t *testing.T) {
	r := Normalize("arbeitnow", "Head of HR", "", "", "", "")

	if r.Source != "arbeitnow" {
		t.Fatalf("unexpected source: %q", r.Source)
	}
	if r.Title != "Head of HR" {
		t.Fatalf("unexpected title: %q", r.Title)
	}
	for name, got := range map[string]string{
		"company":     r.Company,
		"location":    r.Location,
		"url":         r.URL,
		"description": r.Description,
	} {
		if got != "" {
			t.Fatalf("expected empty %s, got %q", name, got)
		}
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "url wins when present",
			record: Record{Title: "HR Director", Company: "Acme", URL: "https://example.com/jobs/1"},
			want:   "https://example.com/jobs/1",
		},
		{
			name:   "falls back to title and company",
			record: Record{Title: "HR Director", Company: "Acme"},
			want:   "HR Director @ Acme",
		},
		{
			name:   "stable for empty record",
			record: Record{},
			want:   " @ ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Fingerprint(); got != tt.want {
				t.Fatalf("Fingerprint() = %q, want %q", got, tt.want)
			}
		})
	}
}
