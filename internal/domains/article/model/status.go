package model

// Status là trạng thái workflow của một content document
type Status string

const (
	StatusDraft           Status = "draft"
	StatusReview          Status = "review"
	StatusNeedsCorrection Status = "needs-correction"
	StatusScheduled       Status = "scheduled"
	StatusPublished       Status = "published"
)

// AllStatuses in pipeline order
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusReview, StatusNeedsCorrection, StatusScheduled, StatusPublished}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusNeedsCorrection, StatusScheduled, StatusPublished:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ModerationStatus tracks where a document is in the scan lifecycle
type ModerationStatus string

const (
	ModerationUnscanned ModerationStatus = "unscanned"
	ModerationQueued    ModerationStatus = "queued"
	ModerationScanned   ModerationStatus = "scanned"
	ModerationFlagged   ModerationStatus = "flagged"
	ModerationError     ModerationStatus = "error"
)

// ModerationAction is recorded on every moderation log entry
type ModerationAction string

const (
	ActionClean    ModerationAction = "clean"
	ActionFlagged  ModerationAction = "flagged"
	ActionBypassed ModerationAction = "bypassed"
	ActionError    ModerationAction = "error"
	ActionPending  ModerationAction = "pending" // no score yet, waiting for the queue
)

// ContentType is the discriminant of the document payload
type ContentType string

const (
	TypeArticle   ContentType = "article"
	TypeReview    ContentType = "review"
	TypeSpotlight ContentType = "spotlight"
	TypeGallery   ContentType = "gallery"
	TypeAlbum     ContentType = "album"
)

func AllContentTypes() []ContentType {
	return []ContentType{TypeArticle, TypeReview, TypeSpotlight, TypeGallery, TypeAlbum}
}

func (t ContentType) IsValid() bool {
	switch t {
	case TypeArticle, TypeReview, TypeSpotlight, TypeGallery, TypeAlbum:
		return true
	}
	return false
}
