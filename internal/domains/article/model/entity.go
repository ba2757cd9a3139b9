package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Article is a content document: a common envelope (workflow, moderation,
// audit) shared by every content type, plus the payload selected by Type.
type Article struct {
	// Identity
	ID    uuid.UUID   `json:"id"`
	Type  ContentType `json:"type"`
	Title string      `json:"title"`
	Slug  string      `json:"slug"`
	Body  Body        `json:"body"`

	// Presentation
	Badges    []string `json:"badges"`
	HeroImage *string  `json:"hero_image,omitempty"`

	// Sponsorship
	Sponsored         bool   `json:"sponsored"`
	SponsorDisclosure string `json:"sponsor_disclosure,omitempty"`

	// Ownership - server-set, never client-supplied
	CreatedBy uuid.UUID `json:"created_by"`
	UpdatedBy uuid.UUID `json:"updated_by"`

	// Workflow
	Status               Status     `json:"status"`
	ScheduledPublishDate *time.Time `json:"scheduled_publish_date,omitempty"`
	PublishedDate        *time.Time `json:"published_date,omitempty"`
	UnpublishReason      string     `json:"unpublish_reason,omitempty"`
	EditorialNotes       string     `json:"editorial_notes,omitempty"`
	Checklist            Checklist  `json:"checklist"`

	// Moderation
	ToxicityScore    float64              `json:"toxicity_score"`
	IsToxic          bool                 `json:"is_toxic"`
	ModerationStatus ModerationStatus     `json:"moderation_status"`
	ModerationLog    Log[ModerationEntry] `json:"moderation_log"`

	// Audit
	WorkflowLog Log[WorkflowEntry] `json:"workflow_log"`
	Rollback    *RollbackMeta      `json:"rollback,omitempty"`

	// Bookkeeping
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"` // lastUpdated
}

// Checklist must be complete before a person publishes
type Checklist struct {
	FactChecked  bool `json:"fact_checked"`
	CopyEdited   bool `json:"copy_edited"`
	MediaCleared bool `json:"media_cleared"`
}

func (c Checklist) Complete() bool {
	return c.FactChecked && c.CopyEdited && c.MediaCleared
}

// WorkflowEntry records one status transition
type WorkflowEntry struct {
	From   Status    `json:"from"`
	To     Status    `json:"to"`
	By     uuid.UUID `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

// ModerationEntry records one moderation invocation
type ModerationEntry struct {
	Action  ModerationAction `json:"action"`
	Score   float64          `json:"score"`
	Message string           `json:"message,omitempty"`
	By      uuid.UUID        `json:"by"`
	At      time.Time        `json:"at"`
}

// RollbackMeta is attached to the document by a rollback
type RollbackMeta struct {
	SourceVersionID *uuid.UUID `json:"source_version_id,omitempty"`
	Reason          string     `json:"reason"`
	At              time.Time  `json:"at"`
}

// Version is an immutable snapshot written with every create and update
type Version struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	Version   int       `json:"version"`
	Snapshot  *Article  `json:"snapshot"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// IsPublished returns true if the document is live
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// HasBadge checks badge membership
func (a *Article) HasBadge(badge string) bool {
	for _, b := range a.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// IsSponsored - tagged sponsored by flag or badge
func (a *Article) IsSponsored() bool {
	return a.Sponsored || a.HasBadge(SponsoredBadge)
}

// DueForPublish is the sweeper guard
func (a *Article) DueForPublish(now time.Time) bool {
	return a.Status == StatusScheduled &&
		a.ScheduledPublishDate != nil &&
		!a.ScheduledPublishDate.After(now)
}

// Clone returns a copy that shares no mutable state with a
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Badges != nil {
		cp.Badges = append([]string(nil), a.Badges...)
	}
	cp.HeroImage = cloneString(a.HeroImage)
	cp.ScheduledPublishDate = cloneTime(a.ScheduledPublishDate)
	cp.PublishedDate = cloneTime(a.PublishedDate)
	if a.Rollback != nil {
		rb := *a.Rollback
		if a.Rollback.SourceVersionID != nil {
			id := *a.Rollback.SourceVersionID
			rb.SourceVersionID = &id
		}
		cp.Rollback = &rb
	}
	// Body values are replaced wholesale, never mutated; logs are immutable.
	return &cp
}

// SameContent reports structural equality, ignoring the append-only logs and
// bookkeeping fields that change on every save.
func (a *Article) SameContent(b *Article) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, errX := json.Marshal(a.comparable())
	y, errY := json.Marshal(b.comparable())
	if errX != nil || errY != nil {
		return false
	}
	return bytes.Equal(x, y)
}

func (a *Article) comparable() *Article {
	cp := a.Clone()
	cp.ModerationLog = Log[ModerationEntry]{}
	cp.WorkflowLog = Log[WorkflowEntry]{}
	cp.Version = 0
	cp.UpdatedAt = time.Time{}
	cp.UpdatedBy = uuid.Nil
	if cp.ScheduledPublishDate != nil {
		t := cp.ScheduledPublishDate.UTC()
		cp.ScheduledPublishDate = &t
	}
	if cp.PublishedDate != nil {
		t := cp.PublishedDate.UTC()
		cp.PublishedDate = &t
	}
	cp.CreatedAt = cp.CreatedAt.UTC()
	return cp
}

// Summary is handed to the notification channel on publish
func (a *Article) Summary() Summary {
	return Summary{
		ID:            a.ID,
		Type:          a.Type,
		Title:         a.Title,
		Slug:          a.Slug,
		PublishedDate: a.PublishedDate,
		PublishedBy:   a.UpdatedBy,
	}
}

// UnmarshalJSON decodes the payload according to the type discriminant
func (a *Article) UnmarshalJSON(data []byte) error {
	type alias Article
	aux := struct {
		*alias
		Body json.RawMessage `json:"body"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	body, err := DecodeBody(a.Type, aux.Body)
	if err != nil {
		return err
	}
	a.Body = body
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
