package domain

// MatchConfig holds the corpus fields and ranking defaults shared by fit and serve.
type MatchConfig struct {
	Fields         []string
	CombinedColumn string
	DefaultTopK    int
	MaxTopK        int
}

// DefaultMatchConfig returns the defaults tuned for the reference job postings dataset.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Fields:         []string{"Job Title", "Role", "skills", "Company", "Qualifications", "Work Type"},
		CombinedColumn: "combined",
		DefaultTopK:    5,
		MaxTopK:        100,
	}
}
