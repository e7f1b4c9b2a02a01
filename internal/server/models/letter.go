package models

import "time"

// Letter is a composition owned by a sender. Content is either plain text or
// an image data URI. Title and RecipientEmail are NULL until set.
type Letter struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	Style          string    `json:"style"`
	PaperType      string    `json:"paper_type"`
	Title          *string   `json:"title"`
	RecipientEmail *string   `json:"recipient_email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
