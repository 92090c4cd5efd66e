package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validPost() Post {
	return Post{
		OwnerID:      "0b8f6f0e-4a43-4a8e-9a53-d3b0b1f1f3a1",
		Caption:      "Sunset over the harbour #travel #golden",
		ScheduledFor: time.Date(2025, 5, 28, 9, 0, 0, 0, time.UTC),
		Status:       StatusScheduled,
	}
}

func TestPostValidate(t *testing.T) {
	accountID := "9d0c7f43-3a7b-4c1a-9b2e-6f0f4c6b1b11"
	badAccount := "not-a-uuid"

	tests := []struct {
		name   string
		modify func(p *Post)
		want   error
	}{
		{"valid", func(p *Post) {}, nil},
		{"valid with image and account", func(p *Post) {
			p.ImageURL = "https://cdn.example.com/a.png"
			p.AccountID = &accountID
		}, nil},
		{"missing owner", func(p *Post) { p.OwnerID = "" }, ErrEmptyOwnerID},
		{"missing caption", func(p *Post) { p.Caption = "" }, ErrEmptyCaption},
		{"blank caption", func(p *Post) { p.Caption = "   " }, ErrEmptyCaption},
		{"caption too long", func(p *Post) {
			b := make([]rune, MaxCaptionLength+1)
			for i := range b {
				b[i] = 'a'
			}
			p.Caption = string(b)
		}, ErrCaptionTooLong},
		{"missing schedule", func(p *Post) { p.ScheduledFor = time.Time{} }, ErrMissingSchedule},
		{"relative image", func(p *Post) { p.ImageURL = "images/a.png" }, ErrInvalidImageURL},
		{"ftp image", func(p *Post) { p.ImageURL = "ftp://example.com/a.png" }, ErrInvalidImageURL},
		{"bad account", func(p *Post) { p.AccountID = &badAccount }, ErrInvalidAccountID},
		{"bad status", func(p *Post) { p.Status = "draft" }, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPost()
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want != ErrEmptyOwnerID, IsValidationError(err))
		})
	}
}

func TestPostHashtags(t *testing.T) {
	p := Post{Caption: "Morning run #fitness #5k # not-a-tag #fitness"}
	assert.Equal(t, []string{"#fitness", "#5k", "#fitness"}, p.Hashtags())

	p.Caption = "no tags here"
	assert.Empty(t, p.Hashtags())
}

func TestPostIsEditable(t *testing.T) {
	p := validPost()
	assert.True(t, p.IsEditable())

	p.Status = StatusPublished
	assert.False(t, p.IsEditable())

	p.Status = StatusFailed
	assert.False(t, p.IsEditable())
}
