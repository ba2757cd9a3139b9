package moderation

import (
	"context"
	"strings"

	"newsroom-backend/internal/domains/article/model"
)

// Result of one toxicity scan
type Result struct {
	Score   float64 `json:"score"`
	IsToxic bool    `json:"is_toxic"`
	Message string  `json:"message,omitempty"`
}

// Scorer is the external toxicity classifier
type Scorer interface {
	Scan(ctx context.Context, text string) (Result, error)
}

// StubScorer returns a fixed result without calling anything.
// Used until a real classifier is wired in.
type StubScorer struct {
	Score float64
}

func NewStubScorer() *StubScorer {
	return &StubScorer{}
}

func (s *StubScorer) Scan(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{Score: s.Score, Message: "stub scorer"}, nil
}

// Text builds the moderation text: title, payload text fields and sponsor
// disclosure, newline-joined, empty parts skipped.
func Text(a *model.Article) string {
	parts := []string{a.Title}
	if a.Body != nil {
		parts = append(parts, a.Body.Texts()...)
	}
	parts = append(parts, a.SponsorDisclosure)

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

// TextChanged reports whether the moderation text differs between two versions
func TextChanged(prev, next *model.Article) bool {
	if prev == nil {
		return true
	}
	return Text(prev) != Text(next)
}
