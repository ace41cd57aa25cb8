package match

import "github.com/kailas-cloud/jobmatch/internal/domain/job"

// Match is a ranked job record with its cosine similarity to the query.
type Match struct {
	record job.Record
	score  float64
	rank   int
}

// New creates a match. rank is 1-based.
func New(record job.Record, score float64, rank int) Match {
	return Match{record: record, score: score, rank: rank}
}

// Record returns the matched job record.
func (m *Match) Record() job.Record { return m.record }

// Score returns the similarity score in [0, 1].
func (m *Match) Score() float64 { return m.score }

// Rank returns the 1-based position in the result list.
func (m *Match) Rank() int { return m.rank }

// Hit is a scored corpus row before it is materialized into a Match.
type Hit struct {
	Row   int
	Score float64
}
