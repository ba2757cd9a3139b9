package model

const (
	// Moderation
	DefaultToxicityThreshold = 0.7

	// Content limits
	MaxTitleLength     = 300
	MaxContentLength   = 100000
	MaxTags            = 20
	MaxBadges          = 10
	MaxGalleryImages   = 100
	MaxNotesLength     = 5000
	MaxReasonLength    = 1000
	MaxDisclosureLen   = 1000
	MinRating          = 1
	MaxRating          = 5
	DefaultPageLimit   = 20
	MaxPageLimit       = 100
	DefaultDrainBatch  = 50
	DefaultSweepBatch  = 100
	SponsoredBadge     = "sponsored"
	ModerationNoteMark = "[moderation]"
)
