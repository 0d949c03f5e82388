package db

import "time"

// Fetch is one cached remote body.
type Fetch struct {
	URL       string
	Size      int64
	FetchedAt time.Time
}

// BuildRun is the provenance record of one dataset build.
type BuildRun struct {
	ID                  string
	StartedAt           time.Time
	FinishedAt          time.Time
	Verbs               int
	MissingTranslations int
	MissingConjugations int
	Mismatches          int
}

// Diagnostic kinds.
const (
	KindMissingTranslation = "missing_translation"
	KindMissingConjugation = "missing_conjugation"
	KindMismatch           = "mismatch"
)

// Diagnostic is one advisory line recorded for a build run.
type Diagnostic struct {
	RunID  string
	Kind   string
	Lemma  string
	Reason string
}
