package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildPublishNotice(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	data := PublishNoticeData{
		ArticleID:     uuid.New(),
		Type:          "review",
		Title:         "Best of the year",
		Slug:          "best-of-the-year",
		PublishedDate: &at,
	}

	body := publishNoticeBody(data)
	assert.Contains(t, body, "A review was published.")
	assert.Contains(t, body, "best-of-the-year")
	assert.Contains(t, body, "Sun, 01 Mar 2026 09:00:00 UTC")

	msg := string(buildMessage("from@x.dev", EmailRequest{To: []string{"a@x.dev", "b@x.dev"}, Subject: "S", Body: body}))
	assert.True(t, strings.HasPrefix(msg, "From: from@x.dev\r\nTo: a@x.dev, b@x.dev\r\nSubject: S\r\n"))
}

func TestSendPublishNoticeWithoutRecipients(t *testing.T) {
	svc := NewSMTPEmailService("127.0.0.1", "1", "", "", "")
	// không có người nhận thì không mở kết nối SMTP
	assert.NoError(t, svc.SendPublishNotice(context.Background(), nil, PublishNoticeData{Title: "x"}))
}
