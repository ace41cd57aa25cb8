package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

func TestNew_JoinsNonEmptyFragments(t *testing.T) {
	q, err := New(Fragments{
		Skills:        "  python sql ",
		JobRole:       "",
		Qualification: "M.Tech",
	}, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "python sql M.Tech" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if q.TopK() != 0 {
		t.Errorf("TopK() = %d, want 0", q.TopK())
	}
}

func TestNew_WhitespaceOnlyIsEmpty(t *testing.T) {
	q, err := New(Fragments{Skills: "   ", JobRole: "\t\n"}, 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsEmpty() {
		t.Errorf("expected empty query, got %q", q.Text())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		f        Fragments
		topK     int
		minScore float64
	}{
		{"negative top_k", Fragments{Skills: "go"}, -1, 0},
		{"min_score below zero", Fragments{Skills: "go"}, 5, -0.1},
		{"min_score above one", Fragments{Skills: "go"}, 5, 1.5},
		{"too long", Fragments{Skills: strings.Repeat("a", MaxTextLength+1)}, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.f, tc.topK, tc.minScore)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNew_MaxTextLength(t *testing.T) {
	q, err := New(Fragments{Skills: strings.Repeat("a", MaxTextLength)}, 5, 0)
	if err != nil {
		t.Fatalf("text at the limit rejected: %v", err)
	}
	if len(q.Text()) != MaxTextLength {
		t.Errorf("len = %d, want %d", len(q.Text()), MaxTextLength)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", " ", "b ", ""); got != "a b" {
		t.Errorf("Join = %q, want %q", got, "a b")
	}
	if got := Join(); got != "" {
		t.Errorf("Join() = %q, want empty", got)
	}
}
