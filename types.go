package jobmatch

import "time"

// Query is a candidate profile. Every fragment is optional, but at least
// one must carry text.
type Query struct {
	Skills            string
	JobRole           string
	CompanyPreference string
	Qualification     string

	TopK     int     // 0 = client default
	MinScore float64 // drop matches scoring below this
}

// Match is one recommended job posting.
type Match struct {
	Rank   int               // 1-based
	Score  float64           // cosine similarity in [0, 1]
	Row    int               // position in the processed dataset
	Record map[string]string // column -> value
}

// Result lists matches best first.
type Result struct {
	Matches []Match
	TopK    int
	Model   string // fingerprint of the model that answered
}

// ModelInfo describes a fitted or serving model.
type ModelInfo struct {
	Fingerprint    string
	Documents      int
	Terms          int
	Fields         []string
	CombinedColumn string
	LoadedAt       time.Time
}

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}
