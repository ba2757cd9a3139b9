package moderation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

// sensitive statuses cannot hold toxic content
var sensitive = map[model.Status]bool{
	model.StatusPublished: true,
	model.StatusScheduled: true,
	model.StatusReview:    true,
}

// Engine scores content and forces toxic documents out of the pipeline.
type Engine struct {
	threshold float64
}

func NewEngine(threshold float64) *Engine {
	if threshold <= 0 || threshold > 1 {
		threshold = model.DefaultToxicityThreshold
	}
	return &Engine{threshold: threshold}
}

func (e *Engine) Threshold() float64 {
	return e.threshold
}

// IsToxic applies the threshold
func (e *Engine) IsToxic(score float64) bool {
	return score >= e.threshold
}

// Bypasses is true for human admins: their saves are never scored or overridden
func (e *Engine) Bypasses(p *access.Principal) bool {
	return access.IsAdmin(p) && !access.IsSystem(p)
}

// Scan is the outcome of a fresh scoring call
type Scan struct {
	Result Result
	Err    error
}

// Input is one save as seen by the moderation engine
type Input struct {
	Principal *access.Principal
	Next      *model.Article
	// Scan is nil when no fresh score is available; the stored score is reused
	Scan *Scan
	Now  time.Time
}

// Outcome describes what the engine did
type Outcome struct {
	Action     model.ModerationAction
	Overridden bool
	From       model.Status
}

// Apply runs moderation on in.Next in place. It appends exactly one
// moderation log entry and never returns an error: an override is not a failure.
func (e *Engine) Apply(in Input) Outcome {
	next := in.Next
	p := in.Principal
	by := access.SystemID
	if p != nil && p.ID != uuid.Nil {
		by = p.ID
	}

	if e.Bypasses(p) {
		next.ModerationLog = next.ModerationLog.Append(model.ModerationEntry{
			Action:  model.ActionBypassed,
			Score:   next.ToxicityScore,
			Message: "admin bypass",
			By:      by,
			At:      in.Now,
		})
		return Outcome{Action: model.ActionBypassed}
	}

	var (
		action  model.ModerationAction
		message string
	)

	switch {
	case in.Scan != nil && in.Scan.Err != nil:
		// Scan failed: keep the stored score, mark the error until a scan succeeds
		next.ModerationStatus = model.ModerationError
		action = model.ActionError
		message = in.Scan.Err.Error()

	case in.Scan != nil:
		next.ToxicityScore = in.Scan.Result.Score
		next.IsToxic = e.IsToxic(next.ToxicityScore)
		next.ModerationStatus = statusFor(next.IsToxic)
		action = actionFor(next.IsToxic)
		message = in.Scan.Result.Message

	default:
		switch next.ModerationStatus {
		case "", model.ModerationUnscanned, model.ModerationQueued, model.ModerationError:
			if next.ModerationStatus == "" {
				next.ModerationStatus = model.ModerationUnscanned
			}
			action = model.ActionPending
		default:
			next.IsToxic = e.IsToxic(next.ToxicityScore)
			next.ModerationStatus = statusFor(next.IsToxic)
			action = actionFor(next.IsToxic)
		}
	}

	out := Outcome{Action: action}
	if next.IsToxic && sensitive[next.Status] {
		out.Overridden = true
		out.From = next.Status
		e.override(next, in.Now)
	}

	next.ModerationLog = next.ModerationLog.Append(model.ModerationEntry{
		Action:  action,
		Score:   next.ToxicityScore,
		Message: message,
		By:      by,
		At:      in.Now,
	})
	return out
}

// override forces needs-correction without an edge check
func (e *Engine) override(next *model.Article, now time.Time) {
	from := next.Status
	note := fmt.Sprintf("%s toxicity score %.2f reached threshold %.2f, moved from %s to %s",
		model.ModerationNoteMark, next.ToxicityScore, e.threshold, from, model.StatusNeedsCorrection)

	if next.EditorialNotes == "" {
		next.EditorialNotes = note
	} else {
		next.EditorialNotes = next.EditorialNotes + "\n" + note
	}
	if from == model.StatusPublished && next.UnpublishReason == "" {
		next.UnpublishReason = note
	}

	next.Status = model.StatusNeedsCorrection
	next.WorkflowLog = next.WorkflowLog.Append(model.WorkflowEntry{
		From:   from,
		To:     model.StatusNeedsCorrection,
		By:     access.SystemID,
		At:     now,
		Reason: note,
	})
}

func statusFor(toxic bool) model.ModerationStatus {
	if toxic {
		return model.ModerationFlagged
	}
	return model.ModerationScanned
}

func actionFor(toxic bool) model.ModerationAction {
	if toxic {
		return model.ActionFlagged
	}
	return model.ActionClean
}
