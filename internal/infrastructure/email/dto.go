package email

import (
	"time"

	"github.com/google/uuid"
)

// PublishNoticeData - nội dung email báo bài đã xuất bản
type PublishNoticeData struct {
	ArticleID     uuid.UUID
	Type          string
	Title         string
	Slug          string
	PublishedDate *time.Time
	PublishedBy   uuid.UUID
}

type EmailRequest struct {
	To      []string // Recipients
	Subject string   // Email subject
	Body    string   // Email body (plain text)
}
