package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

func principal(roles ...access.Role) *access.Principal {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return access.NewUserPrincipal(uuid.New(), "staff@example.com", names)
}

// ready fills every auxiliary field so only the edge and role gates matter.
func ready(status model.Status) *model.Article {
	date := time.Now().Add(time.Hour)
	return &model.Article{
		Status:               status,
		ScheduledPublishDate: &date,
		UnpublishReason:      "outdated",
		EditorialNotes:       "checked",
		Checklist:            model.Checklist{FactChecked: true, CopyEdited: true, MediaCleared: true},
	}
}

func TestEveryDeclaredEdgeSucceedsForEditor(t *testing.T) {
	editor := principal(access.RoleEditor)
	for from, targets := range edges {
		for _, to := range targets {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				next := ready(to)
				res, err := Apply(Input{Principal: editor, Prev: &model.Article{Status: from}, Next: next, Now: time.Now()})
				require.NoError(t, err)
				assert.True(t, res.Changed)
				assert.Equal(t, to, next.Status)
				require.Equal(t, 1, next.WorkflowLog.Len())
				entry, _ := next.WorkflowLog.Last()
				assert.Equal(t, from, entry.From)
				assert.Equal(t, to, entry.To)
				assert.Equal(t, editor.ID, entry.By)
			})
		}
	}
}

func TestUndeclaredEdgesAreRejected(t *testing.T) {
	admin := principal(access.RoleAdmin)
	for _, from := range model.AllStatuses() {
		for _, to := range model.AllStatuses() {
			if from == to || CanTransition(from, to) {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				_, err := Apply(Input{Principal: admin, Prev: &model.Article{Status: from}, Next: ready(to), Now: time.Now()})
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidTransition)
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(to))
			})
		}
	}
}

func TestNonEditorsCannotScheduleOrPublish(t *testing.T) {
	for _, p := range []*access.Principal{principal(access.RoleCreator), principal(access.RoleModerator), access.APIReader(), nil} {
		for _, from := range model.AllStatuses() {
			for _, to := range []model.Status{model.StatusScheduled, model.StatusPublished} {
				if from == to {
					continue
				}
				_, err := Apply(Input{Principal: p, Prev: &model.Article{Status: from}, Next: ready(to), Now: time.Now()})
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func TestCreatorCannotSubmitForReview(t *testing.T) {
	_, err := Apply(Input{
		Principal: principal(access.RoleCreator),
		Prev:      &model.Article{Status: model.StatusDraft},
		Next:      &model.Article{Status: model.StatusReview},
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestAdminIsExemptFromRoleGateButNotDataGate(t *testing.T) {
	admin := principal(access.RoleAdmin)
	_, err := Apply(Input{Principal: admin, Prev: &model.Article{Status: model.StatusReview}, Next: &model.Article{Status: model.StatusScheduled}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	date := time.Now()
	_, err = Apply(Input{Principal: admin, Prev: &model.Article{Status: model.StatusReview}, Next: &model.Article{Status: model.StatusScheduled, ScheduledPublishDate: &date}, Now: time.Now()})
	assert.NoError(t, err)

	// checklist still binds admins
	prev := &model.Article{Status: model.StatusScheduled, ScheduledPublishDate: &date}
	_, err = Apply(Input{Principal: admin, Prev: prev, Next: &model.Article{Status: model.StatusPublished}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = Apply(Input{Principal: principal(access.RoleSuperAdmin), Prev: prev, Next: &model.Article{Status: model.StatusPublished}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = Apply(Input{Principal: admin, Prev: prev, Next: ready(model.StatusPublished), Now: time.Now()})
	assert.NoError(t, err)
}

func TestUnchangedStatusSkipsTransitionChecks(t *testing.T) {
	next := &model.Article{Status: model.StatusReview}
	res, err := Apply(Input{Principal: principal(access.RoleCreator), Prev: &model.Article{Status: model.StatusReview}, Next: next, Now: time.Now()})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, next.WorkflowLog.Len())
}

func TestEmptyStatusDefaultsToPrevious(t *testing.T) {
	next := &model.Article{}
	res, err := Apply(Input{Principal: principal(access.RoleEditor), Prev: &model.Article{Status: model.StatusReview}, Next: next, Now: time.Now()})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, model.StatusReview, next.Status)
}

func TestCreateStartsFromDraft(t *testing.T) {
	next := &model.Article{}
	res, err := Apply(Input{Principal: principal(access.RoleCreator), Next: next, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, next.Status)
	assert.False(t, res.Changed)

	_, err = Apply(Input{Principal: principal(access.RoleEditor), Next: ready(model.StatusPublished), Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestScheduleRequiresDate(t *testing.T) {
	editor := principal(access.RoleEditor)
	_, err := Apply(Input{Principal: editor, Prev: &model.Article{Status: model.StatusReview}, Next: &model.Article{Status: model.StatusScheduled}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	date := time.Now().Add(-time.Hour)
	next := &model.Article{Status: model.StatusScheduled, ScheduledPublishDate: &date}
	_, err = Apply(Input{Principal: editor, Prev: &model.Article{Status: model.StatusReview}, Next: next, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, next.Status)
}

func TestLeavingPublishedRequiresReason(t *testing.T) {
	editor := principal(access.RoleEditor)
	prev := &model.Article{Status: model.StatusPublished}

	_, err := Apply(Input{Principal: editor, Prev: prev, Next: &model.Article{Status: model.StatusNeedsCorrection, EditorialNotes: "fix"}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = Apply(Input{Principal: editor, Prev: prev, Next: &model.Article{Status: model.StatusNeedsCorrection, EditorialNotes: "fix", UnpublishReason: "error in lede"}, Now: time.Now()})
	assert.NoError(t, err)
}

func TestNeedsCorrectionRequiresNotes(t *testing.T) {
	_, err := Apply(Input{Principal: principal(access.RoleEditor), Prev: &model.Article{Status: model.StatusReview}, Next: &model.Article{Status: model.StatusNeedsCorrection}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)
}

func TestEditingPublishedRequiresNotesExceptForSystem(t *testing.T) {
	prev := &model.Article{Status: model.StatusPublished}
	_, err := Apply(Input{Principal: principal(access.RoleEditor), Prev: prev, Next: &model.Article{Status: model.StatusPublished}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = Apply(Input{Principal: access.System(), Prev: prev, Next: &model.Article{Status: model.StatusPublished}, Now: time.Now()})
	assert.NoError(t, err)
}

func TestPublishingRequiresChecklistForPeopleOnly(t *testing.T) {
	date := time.Now()
	prev := &model.Article{Status: model.StatusScheduled, ScheduledPublishDate: &date}

	_, err := Apply(Input{Principal: principal(access.RoleEditor), Prev: prev, Next: &model.Article{Status: model.StatusPublished}, Now: time.Now()})
	assert.ErrorIs(t, err, model.ErrMissingData)

	next := &model.Article{Status: model.StatusPublished}
	res, err := Apply(Input{Principal: access.System(), Prev: prev, Next: next, Now: time.Now()})
	require.NoError(t, err)
	assert.True(t, res.EnteredPublished())
}

func TestStampPublication(t *testing.T) {
	now := time.Now()
	next := &model.Article{Status: model.StatusPublished, UnpublishReason: "old"}
	StampPublication(model.StatusScheduled, next, now)
	require.NotNil(t, next.PublishedDate)
	assert.Equal(t, now, *next.PublishedDate)
	assert.Empty(t, next.UnpublishReason)

	// already published: keep the original date
	later := now.Add(time.Hour)
	StampPublication(model.StatusPublished, next, later)
	assert.Equal(t, now, *next.PublishedDate)

	// overridden away from published: nothing stamped
	forced := &model.Article{Status: model.StatusNeedsCorrection}
	StampPublication(model.StatusScheduled, forced, now)
	assert.Nil(t, forced.PublishedDate)
}

func TestFailedApplyLeavesDocumentUntouched(t *testing.T) {
	next := &model.Article{Status: model.StatusPublished}
	_, err := Apply(Input{Principal: principal(access.RoleEditor), Prev: &model.Article{Status: model.StatusDraft}, Next: next, Now: time.Now()})
	require.Error(t, err)
	assert.Equal(t, 0, next.WorkflowLog.Len())
	assert.Equal(t, model.StatusPublished, next.Status)
}
