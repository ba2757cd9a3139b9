package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// TYPE-SPECIFIC PAYLOAD (tagged union on Article.Type)
// =====================================================

// Body is the type-specific part of a content document.
type Body interface {
	Kind() ContentType
	Validate() error
	// Texts returns the human-written text fields fed to moderation
	Texts() []string
}

// ArticleBody - long-form news / feature article
type ArticleBody struct {
	Subtitle string   `json:"subtitle,omitempty"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
}

func (b ArticleBody) Kind() ContentType { return TypeArticle }

func (b ArticleBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Content, validation.Required.Error("content is required"), validation.Length(1, MaxContentLength)),
		validation.Field(&b.Subtitle, validation.Length(0, 300)),
		validation.Field(&b.Excerpt, validation.Length(0, 1000)),
		validation.Field(&b.Tags, validation.Length(0, MaxTags), validation.Each(validation.Required, validation.Length(1, 50))),
	)
}

func (b ArticleBody) Texts() []string {
	return []string{b.Subtitle, b.Excerpt, b.Content}
}

// ReviewBody - critic review of a product, show, book...
type ReviewBody struct {
	Subject string `json:"subject"`
	Rating  int    `json:"rating"` // 1-5
	Verdict string `json:"verdict,omitempty"`
	Content string `json:"content"`
}

func (b ReviewBody) Kind() ContentType { return TypeReview }

func (b ReviewBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&b.Rating, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&b.Verdict, validation.Length(0, 300)),
		validation.Field(&b.Content, validation.Required, validation.Length(1, MaxContentLength)),
	)
}

func (b ReviewBody) Texts() []string {
	return []string{b.Subject, b.Verdict, b.Content}
}

// SpotlightBody - profile of a person
type SpotlightBody struct {
	PersonName string `json:"person_name"`
	Quote      string `json:"quote,omitempty"`
	Content    string `json:"content"`
}

func (b SpotlightBody) Kind() ContentType { return TypeSpotlight }

func (b SpotlightBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.PersonName, validation.Required, validation.Length(1, 200)),
		validation.Field(&b.Quote, validation.Length(0, 500)),
		validation.Field(&b.Content, validation.Required, validation.Length(1, MaxContentLength)),
	)
}

func (b SpotlightBody) Texts() []string {
	return []string{b.PersonName, b.Quote, b.Content}
}

// MediaRef points at an already-uploaded image
type MediaRef struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Credit  string `json:"credit,omitempty"`
}

func (m MediaRef) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.URL, validation.Required, is.URL),
		validation.Field(&m.Caption, validation.Length(0, 500)),
		validation.Field(&m.Credit, validation.Length(0, 200)),
	)
}

// GalleryBody - photo gallery
type GalleryBody struct {
	Caption string     `json:"caption,omitempty"`
	Images  []MediaRef `json:"images"`
}

func (b GalleryBody) Kind() ContentType { return TypeGallery }

func (b GalleryBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Caption, validation.Length(0, 1000)),
		validation.Field(&b.Images, validation.Required.Error("at least one image is required"), validation.Length(1, MaxGalleryImages)),
	)
}

func (b GalleryBody) Texts() []string {
	texts := []string{b.Caption}
	for _, img := range b.Images {
		texts = append(texts, img.Caption)
	}
	return texts
}

// AlbumBody - music album write-up
type AlbumBody struct {
	Artist      string   `json:"artist"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Tracks      []string `json:"tracks,omitempty"`
	Content     string   `json:"content"`
}

func (b AlbumBody) Kind() ContentType { return TypeAlbum }

func (b AlbumBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Artist, validation.Required, validation.Length(1, 200)),
		validation.Field(&b.ReleaseYear, validation.When(b.ReleaseYear != 0, validation.Min(1900), validation.Max(2100))),
		validation.Field(&b.Tracks, validation.Each(validation.Required, validation.Length(1, 200))),
		validation.Field(&b.Content, validation.Required, validation.Length(1, MaxContentLength)),
	)
}

func (b AlbumBody) Texts() []string {
	return append([]string{b.Artist, b.Content}, b.Tracks...)
}

// DecodeBody picks the payload type from kind. Empty or null raw yields a nil Body.
func DecodeBody(kind ContentType, raw json.RawMessage) (Body, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var (
		body Body
		err  error
	)
	switch kind {
	case TypeArticle:
		var b ArticleBody
		err = json.Unmarshal(trimmed, &b)
		body = b
	case TypeReview:
		var b ReviewBody
		err = json.Unmarshal(trimmed, &b)
		body = b
	case TypeSpotlight:
		var b SpotlightBody
		err = json.Unmarshal(trimmed, &b)
		body = b
	case TypeGallery:
		var b GalleryBody
		err = json.Unmarshal(trimmed, &b)
		body = b
	case TypeAlbum:
		var b AlbumBody
		err = json.Unmarshal(trimmed, &b)
		body = b
	default:
		return nil, fmt.Errorf("unknown content type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", kind, err)
	}
	return body, nil
}
