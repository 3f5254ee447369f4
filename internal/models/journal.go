package models

import (
	"time"
)

// Journal represents a private journaling entry for a user
type Journal struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
	UserID    string    `bson:"user_id" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Encrypted bool      `bson:"encrypted" json:"-"`

	Duration      float64 `bson:"duration" json:"duration"`
	AttachmentURL string  `bson:"attachment_url,omitempty" json:"attachmentUrl,omitempty"`

	// Filled from the emotion classifier and message generator on save
	Mood           string `bson:"mood" json:"mood"`
	SupportMessage string `bson:"support_message" json:"supportMessage"`
	NeedsSupport   bool   `bson:"needs_support" json:"needsSupport"`
}

// JournalInput is the body of a journal save request.
type JournalInput struct {
	UserID        string   `json:"userId"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Duration      *float64 `json:"duration,omitempty"`
	AttachmentURL string   `json:"attachmentUrl,omitempty"`
}
