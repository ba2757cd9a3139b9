package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateArticleRequest request to create a content document
type CreateArticleRequest struct {
	Type                 ContentType     `json:"type" binding:"required"`
	Title                string          `json:"title" binding:"required"`
	Slug                 *string         `json:"slug"`
	Body                 json.RawMessage `json:"body" binding:"required"`
	Badges               []string        `json:"badges"`
	HeroImage            *string         `json:"hero_image"`
	Sponsored            bool            `json:"sponsored"`
	SponsorDisclosure    string          `json:"sponsor_disclosure"`
	Status               *Status         `json:"status"`
	ScheduledPublishDate *time.Time      `json:"scheduled_publish_date"`
	EditorialNotes       string          `json:"editorial_notes"`
	Checklist            *Checklist      `json:"checklist"`
}

func (r CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(contentTypesAsAny()...).Error("unknown content type")),
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Body, validation.Required.Error("body is required")),
		validation.Field(&r.Badges, validation.Length(0, MaxBadges), validation.Each(validation.Required, validation.Length(1, 50))),
		validation.Field(&r.SponsorDisclosure, validation.Length(0, MaxDisclosureLen)),
		validation.Field(&r.Status, validation.When(r.Status != nil, validation.In(statusesAsAny()...).Error("unknown status"))),
		validation.Field(&r.EditorialNotes, validation.Length(0, MaxNotesLength)),
	)
}

// UpdateArticleRequest is a partial update; nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title                *string         `json:"title"`
	Slug                 *string         `json:"slug"`
	Body                 json.RawMessage `json:"body"`
	Badges               *[]string       `json:"badges"`
	HeroImage            *string         `json:"hero_image"` // "" clears
	Sponsored            *bool           `json:"sponsored"`
	SponsorDisclosure    *string         `json:"sponsor_disclosure"`
	Status               *Status         `json:"status"`
	ScheduledPublishDate *time.Time      `json:"scheduled_publish_date"`
	UnpublishReason      *string         `json:"unpublish_reason"`
	EditorialNotes       *string         `json:"editorial_notes"`
	Checklist            *Checklist      `json:"checklist"`
	ExpectedVersion      *int            `json:"expected_version"`

	// set by rollback only, never bound from JSON
	rollback *RollbackMeta
}

func (r UpdateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Badges, validation.By(func(value interface{}) error {
			badges, _ := value.(*[]string)
			if badges == nil {
				return nil
			}
			return validation.Validate(*badges, validation.Length(0, MaxBadges), validation.Each(validation.Required, validation.Length(1, 50)))
		})),
		validation.Field(&r.SponsorDisclosure, validation.Length(0, MaxDisclosureLen)),
		validation.Field(&r.Status, validation.When(r.Status != nil, validation.In(statusesAsAny()...).Error("unknown status"))),
		validation.Field(&r.UnpublishReason, validation.Length(0, MaxReasonLength)),
		validation.Field(&r.EditorialNotes, validation.Length(0, MaxNotesLength)),
		validation.Field(&r.ExpectedVersion, validation.When(r.ExpectedVersion != nil, validation.Min(1))),
	)
}

// WithRollback marks the request as produced by a rollback
func (r UpdateArticleRequest) WithRollback(meta RollbackMeta) UpdateArticleRequest {
	r.rollback = &meta
	return r
}

// RollbackMeta returns the rollback metadata carried by the request, if any
func (r UpdateArticleRequest) RollbackMeta() *RollbackMeta {
	return r.rollback
}

// RollbackRequest request to re-apply a historical version
type RollbackRequest struct {
	VersionID uuid.UUID `json:"version_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

func (r RollbackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VersionID, validation.Required),
		validation.Field(&r.Reason, validation.Required.Error("reason is required"), validation.Length(1, MaxReasonLength)),
	)
}

// ListArticlesRequest request to list documents
type ListArticlesRequest struct {
	Status *Status      `form:"status"`
	Type   *ContentType `form:"type"`
	Page   int          `form:"page"`
	Limit  int          `form:"limit"`
	Sort   string       `form:"sort"` // "-updated_at" (default), "published_date", ...
	Mine   bool         `form:"mine"`
}

func (r *ListArticlesRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > MaxPageLimit {
		r.Limit = DefaultPageLimit
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.When(r.Status != nil, validation.In(statusesAsAny()...))),
		validation.Field(&r.Type, validation.When(r.Type != nil, validation.In(contentTypesAsAny()...))),
		validation.Field(&r.Sort, validation.In("", "updated_at", "-updated_at", "published_date", "-published_date", "created_at", "-created_at")),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// PublicArticle is the projection served to gate-approved anonymous readers.
// It never carries workflow, moderation, audit or ownership fields.
type PublicArticle struct {
	ID                uuid.UUID   `json:"id"`
	Type              ContentType `json:"type"`
	Title             string      `json:"title"`
	Slug              string      `json:"slug"`
	Body              Body        `json:"body"`
	Badges            []string    `json:"badges"`
	HeroImage         *string     `json:"hero_image,omitempty"`
	Sponsored         bool        `json:"sponsored"`
	SponsorDisclosure string      `json:"sponsor_disclosure,omitempty"`
	PublishedDate     *time.Time  `json:"published_date,omitempty"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ToPublic projects a onto the public field set
func (a *Article) ToPublic() *PublicArticle {
	return &PublicArticle{
		ID:                a.ID,
		Type:              a.Type,
		Title:             a.Title,
		Slug:              a.Slug,
		Body:              a.Body,
		Badges:            append([]string(nil), a.Badges...),
		HeroImage:         cloneString(a.HeroImage),
		Sponsored:         a.IsSponsored(),
		SponsorDisclosure: a.SponsorDisclosure,
		PublishedDate:     cloneTime(a.PublishedDate),
		UpdatedAt:         a.UpdatedAt,
	}
}

// ListArticlesResponse response for list
type ListArticlesResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta pagination metadata
type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func NewPaginationMeta(page, limit, total int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Summary is the message handed to the publish notification channel
type Summary struct {
	ID            uuid.UUID   `json:"id"`
	Type          ContentType `json:"type"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	PublishedDate *time.Time  `json:"published_date,omitempty"`
	PublishedBy   uuid.UUID   `json:"published_by"`
}

// SweepResult reports one sweeper run
type SweepResult struct {
	Checked   int         `json:"checked"`
	Published []uuid.UUID `json:"published"`
	Failed    int         `json:"failed"`
}

// DrainResult reports one moderation queue drain
type DrainResult struct {
	Scanned int `json:"scanned"`
	Flagged int `json:"flagged"`
	Failed  int `json:"failed"`
}

func statusesAsAny() []interface{} {
	out := make([]interface{}, 0, 5)
	for _, s := range AllStatuses() {
		out = append(out, s)
	}
	return out
}

func contentTypesAsAny() []interface{} {
	out := make([]interface{}, 0, 5)
	for _, t := range AllContentTypes() {
		out = append(out, t)
	}
	return out
}
