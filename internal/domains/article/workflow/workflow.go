package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

// edges là đồ thị chuyển trạng thái hợp lệ
var edges = map[model.Status][]model.Status{
	model.StatusDraft:           {model.StatusReview},
	model.StatusReview:          {model.StatusDraft, model.StatusNeedsCorrection, model.StatusScheduled},
	model.StatusNeedsCorrection: {model.StatusReview},
	model.StatusScheduled:       {model.StatusPublished, model.StatusDraft},
	model.StatusPublished:       {model.StatusNeedsCorrection},
}

// editorGated states can only be entered by editor-or-above
var editorGated = map[model.Status]bool{
	model.StatusReview:    true,
	model.StatusScheduled: true,
	model.StatusPublished: true,
}

// CanTransition reports whether from -> to is a declared edge
func CanTransition(from, to model.Status) bool {
	for _, s := range edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStates returns the states reachable from s in one step
func NextStates(s model.Status) []model.Status {
	return append([]model.Status(nil), edges[s]...)
}

// Input is one save as seen by the state machine.
type Input struct {
	Principal *access.Principal
	// Prev is the stored document, nil on create
	Prev *model.Article
	// Next is the resulting document; status defaults to the previous one when empty
	Next   *model.Article
	Reason string
	Now    time.Time
}

// Result describes what the state machine did
type Result struct {
	From    model.Status
	To      model.Status
	Changed bool
}

// EnteredPublished is true when this save moves the document into published
func (r Result) EnteredPublished() bool {
	return r.Changed && r.To == model.StatusPublished
}

// Apply validates the requested status change on in.Next and records it in the
// workflow log. Next is modified in place: its status is normalised and the log
// entry appended. Nothing is modified when an error is returned.
//
// Admins skip only the editor role gate. The data gates (schedule date,
// unpublish reason, editorial notes, publish checklist) apply to every human
// principal, admins included; only the system principal is spared the
// published-edit notes and the checklist.
func Apply(in Input) (Result, error) {
	p := in.Principal
	next := in.Next

	// Step 1: resolve prev / next
	prev := model.StatusDraft
	if in.Prev != nil {
		prev = in.Prev.Status
	}
	to := next.Status
	if to == "" {
		to = prev
	}
	if !to.IsValid() {
		return Result{}, model.NewValidationError(fmt.Errorf("unknown status %q", to))
	}

	res := Result{From: prev, To: to, Changed: prev != to}

	if res.Changed {
		// Step 2: edge check
		if !CanTransition(prev, to) {
			return Result{}, model.NewInvalidTransitionError(prev, to)
		}

		// Step 3: role gate, admin and system are exempt
		if editorGated[to] && !access.IsAdmin(p) && !access.IsEditorOrAbove(p) {
			return Result{}, model.NewForbiddenError("Only editors can move a document to " + string(to))
		}
	}

	// Step 4: data completeness gate
	if err := checkData(p, in.Prev, next, res); err != nil {
		return Result{}, err
	}

	next.Status = to
	if res.Changed {
		next.WorkflowLog = next.WorkflowLog.Append(model.WorkflowEntry{
			From:   prev,
			To:     to,
			By:     principalID(p),
			At:     in.Now,
			Reason: in.Reason,
		})
	}
	return res, nil
}

func checkData(p *access.Principal, prevDoc, next *model.Article, res Result) error {
	if res.To == model.StatusScheduled && next.ScheduledPublishDate == nil {
		return model.NewMissingDataError("scheduled_publish_date is required to schedule a document")
	}

	if res.Changed && res.From == model.StatusPublished && next.UnpublishReason == "" {
		return model.NewMissingDataError("unpublish_reason is required to take a document offline")
	}

	if res.Changed && res.To == model.StatusNeedsCorrection && next.EditorialNotes == "" {
		return model.NewMissingDataError("editorial_notes are required when sending a document back for correction")
	}

	// Internal processes write back scan results and schedule promotions on live
	// documents, they are not editorial edits.
	if prevDoc != nil && res.From == model.StatusPublished && !access.IsSystem(p) && next.EditorialNotes == "" {
		return model.NewMissingDataError("editorial_notes are required when editing published content")
	}

	if res.Changed && res.To == model.StatusPublished && !access.IsSystem(p) && !next.Checklist.Complete() {
		return model.NewMissingDataError("checklist must be complete before publishing")
	}
	return nil
}

// StampPublication sets publishedDate when the document enters published and
// clears the unpublish reason. Runs after moderation so an override is seen.
func StampPublication(prev model.Status, next *model.Article, now time.Time) {
	if prev != model.StatusPublished && next.Status == model.StatusPublished {
		t := now
		next.PublishedDate = &t
		next.UnpublishReason = ""
	}
}

func principalID(p *access.Principal) uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.ID
}
