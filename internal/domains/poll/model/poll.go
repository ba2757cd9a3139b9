package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Visibility decides who can read the results of a poll
type Visibility string

const (
	VisibilityAlways    Visibility = "always"
	VisibilityAfterVote Visibility = "after-vote"
	VisibilityAfterEnd  Visibility = "after-end"
	VisibilityAdminOnly Visibility = "admin-only"
)

func AllVisibilities() []Visibility {
	return []Visibility{VisibilityAlways, VisibilityAfterVote, VisibilityAfterEnd, VisibilityAdminOnly}
}

const (
	MinOptions      = 2
	MaxOptions      = 10
	MaxQuestionLen  = 500
	MaxOptionLength = 200
)

type Poll struct {
	ID         uuid.UUID  `json:"id"`
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Visibility Visibility `json:"visibility"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Ended reports whether voting is closed at now
func (p *Poll) Ended(now time.Time) bool {
	return p.EndsAt != nil && !now.Before(*p.EndsAt)
}

// PublicPoll - projection cho frontend reader (không có created_by)
type PublicPoll struct {
	ID         uuid.UUID  `json:"id"`
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Visibility Visibility `json:"visibility"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
}

func (p *Poll) ToPublic() *PublicPoll {
	return &PublicPoll{
		ID:         p.ID,
		Question:   p.Question,
		Options:    append([]string{}, p.Options...),
		Visibility: p.Visibility,
		EndsAt:     p.EndsAt,
	}
}

// Vote - one ballot; (PollID, VoterKey) is unique
type Vote struct {
	PollID    uuid.UUID `json:"poll_id"`
	VoterKey  string    `json:"-"`
	Option    int       `json:"option"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionResult - số phiếu và phần trăm của một lựa chọn
type OptionResult struct {
	Option  string          `json:"option"`
	Votes   int             `json:"votes"`
	Percent decimal.Decimal `json:"percent"`
}

type Results struct {
	PollID     uuid.UUID      `json:"poll_id"`
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
	Ended      bool           `json:"ended"`
}

// NewResults computes percentages rounded to 2 places. counts is indexed by option.
func NewResults(p *Poll, counts map[int]int, now time.Time) *Results {
	total := 0
	for i := range p.Options {
		total += counts[i]
	}

	res := &Results{PollID: p.ID, TotalVotes: total, Ended: p.Ended(now)}
	hundred := decimal.NewFromInt(100)
	for i, label := range p.Options {
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(int64(counts[i])).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
		}
		res.Options = append(res.Options, OptionResult{Option: label, Votes: counts[i], Percent: pct})
	}
	return res
}
