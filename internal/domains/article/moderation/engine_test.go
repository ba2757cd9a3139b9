package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

func editor() *access.Principal {
	return access.NewUserPrincipal(uuid.New(), "ed@example.com", []string{"editor"})
}

func admin() *access.Principal {
	return access.NewUserPrincipal(uuid.New(), "admin@example.com", []string{"admin"})
}

func TestFlaggedContentIsForcedToNeedsCorrection(t *testing.T) {
	e := NewEngine(0.7)
	for _, status := range []model.Status{model.StatusReview, model.StatusScheduled, model.StatusPublished} {
		t.Run(string(status), func(t *testing.T) {
			doc := &model.Article{Status: status, ModerationStatus: model.ModerationQueued}
			out := e.Apply(Input{
				Principal: access.System(),
				Next:      doc,
				Scan:      &Scan{Result: Result{Score: 0.9}},
				Now:       time.Now(),
			})
			assert.True(t, out.Overridden)
			assert.Equal(t, status, out.From)
			assert.Equal(t, model.StatusNeedsCorrection, doc.Status)
			assert.True(t, doc.IsToxic)
			assert.Equal(t, model.ModerationFlagged, doc.ModerationStatus)
			assert.Contains(t, doc.EditorialNotes, model.ModerationNoteMark)
			assert.Equal(t, 1, doc.ModerationLog.Len())

			entry, ok := doc.WorkflowLog.Last()
			require.True(t, ok)
			assert.Equal(t, status, entry.From)
			assert.Equal(t, model.StatusNeedsCorrection, entry.To)
			assert.Equal(t, access.SystemID, entry.By)
		})
	}
}

func TestOverrideFromPublishedRecordsUnpublishReason(t *testing.T) {
	doc := &model.Article{Status: model.StatusPublished, EditorialNotes: "existing"}
	NewEngine(0.7).Apply(Input{Principal: editor(), Next: doc, Scan: &Scan{Result: Result{Score: 0.95}}, Now: time.Now()})
	assert.NotEmpty(t, doc.UnpublishReason)
	assert.Contains(t, doc.EditorialNotes, "existing\n"+model.ModerationNoteMark)
}

func TestDraftIsFlaggedButNotMoved(t *testing.T) {
	doc := &model.Article{Status: model.StatusDraft}
	out := NewEngine(0.7).Apply(Input{Principal: editor(), Next: doc, Scan: &Scan{Result: Result{Score: 0.8}}, Now: time.Now()})
	assert.False(t, out.Overridden)
	assert.Equal(t, model.StatusDraft, doc.Status)
	assert.Equal(t, model.ActionFlagged, out.Action)
}

func TestThresholdIsInclusive(t *testing.T) {
	e := NewEngine(0.7)
	assert.True(t, e.IsToxic(0.7))
	assert.False(t, e.IsToxic(0.69))
	assert.Equal(t, model.DefaultToxicityThreshold, NewEngine(0).Threshold())
}

func TestAdminBypass(t *testing.T) {
	doc := &model.Article{Status: model.StatusPublished, ToxicityScore: 0.99, IsToxic: true, ModerationStatus: model.ModerationFlagged}
	out := NewEngine(0.7).Apply(Input{Principal: admin(), Next: doc, Scan: &Scan{Result: Result{Score: 0.99}}, Now: time.Now()})

	assert.Equal(t, model.ActionBypassed, out.Action)
	assert.False(t, out.Overridden)
	assert.Equal(t, model.StatusPublished, doc.Status)
	assert.Equal(t, 0.99, doc.ToxicityScore)
	assert.Equal(t, 1, doc.ModerationLog.Len())
	assert.Equal(t, 0, doc.WorkflowLog.Len())
}

func TestSystemPrincipalDoesNotBypass(t *testing.T) {
	doc := &model.Article{Status: model.StatusPublished}
	out := NewEngine(0.7).Apply(Input{Principal: access.System(), Next: doc, Scan: &Scan{Result: Result{Score: 0.9}}, Now: time.Now()})
	assert.True(t, out.Overridden)
}

func TestScanErrorIsStickyUntilSuccess(t *testing.T) {
	e := NewEngine(0.7)
	doc := &model.Article{Status: model.StatusDraft, ModerationStatus: model.ModerationQueued}

	out := e.Apply(Input{Principal: access.System(), Next: doc, Scan: &Scan{Err: errors.New("classifier down")}, Now: time.Now()})
	assert.Equal(t, model.ActionError, out.Action)
	assert.Equal(t, model.ModerationError, doc.ModerationStatus)

	// a later save without a fresh scan keeps the error
	e.Apply(Input{Principal: editor(), Next: doc, Now: time.Now()})
	assert.Equal(t, model.ModerationError, doc.ModerationStatus)

	// a successful scan clears it
	e.Apply(Input{Principal: access.System(), Next: doc, Scan: &Scan{Result: Result{Score: 0.1}}, Now: time.Now()})
	assert.Equal(t, model.ModerationScanned, doc.ModerationStatus)
	assert.Equal(t, 3, doc.ModerationLog.Len())
}

func TestReuseOfStoredScore(t *testing.T) {
	e := NewEngine(0.7)

	pending := &model.Article{Status: model.StatusReview}
	out := e.Apply(Input{Principal: editor(), Next: pending, Now: time.Now()})
	assert.Equal(t, model.ActionPending, out.Action)
	assert.Equal(t, model.ModerationUnscanned, pending.ModerationStatus)

	scanned := &model.Article{Status: model.StatusReview, ToxicityScore: 0.8, ModerationStatus: model.ModerationScanned}
	out = e.Apply(Input{Principal: editor(), Next: scanned, Now: time.Now()})
	assert.Equal(t, model.ActionFlagged, out.Action)
	assert.True(t, out.Overridden)
	assert.Equal(t, model.ModerationFlagged, scanned.ModerationStatus)
}

func TestEveryInvocationAppendsOneEntry(t *testing.T) {
	e := NewEngine(0.7)
	doc := &model.Article{Status: model.StatusDraft}
	for i := 1; i <= 4; i++ {
		e.Apply(Input{Principal: editor(), Next: doc, Now: time.Now()})
		assert.Equal(t, i, doc.ModerationLog.Len())
	}
}

func TestText(t *testing.T) {
	a := &model.Article{
		Title:             "Title",
		Body:              model.ReviewBody{Subject: "Film", Content: "Body text"},
		SponsorDisclosure: "Paid for by X",
	}
	assert.Equal(t, "Title\nFilm\nBody text\nPaid for by X", Text(a))

	b := a.Clone()
	assert.False(t, TextChanged(a, b))
	b.Title = "New"
	assert.True(t, TextChanged(a, b))
	assert.True(t, TextChanged(nil, b))
}

func TestStubScorer(t *testing.T) {
	res, err := NewStubScorer().Scan(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewStubScorer().Scan(ctx, "hello")
	assert.Error(t, err)
}
