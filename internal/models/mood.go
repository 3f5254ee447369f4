package models

import (
	"strings"
	"time"
)

// Coarse mood labels used across the app
const (
	MoodHappy   = "happy"
	MoodSad     = "sad"
	MoodAngry   = "angry"
	MoodAnxious = "anxious"
	MoodNeutral = "neutral"
)

// Where a mood entry's label came from
const (
	MoodSourceUser       = "user"
	MoodSourceClassifier = "classifier"
)

var moodAliases = map[string]string{
	"happy":     MoodHappy,
	"joy":       MoodHappy,
	"love":      MoodHappy,
	"surprise":  MoodHappy,
	"calm":      MoodHappy,
	"grateful":  MoodHappy,
	"sad":       MoodSad,
	"sadness":   MoodSad,
	"lonely":    MoodSad,
	"angry":     MoodAngry,
	"anger":     MoodAngry,
	"disgust":   MoodAngry,
	"annoyance": MoodAngry,
	"anxious":   MoodAnxious,
	"fear":      MoodAnxious,
	"nervous":   MoodAnxious,
	"stressed":  MoodAnxious,
	"worried":   MoodAnxious,
	"neutral":   MoodNeutral,
}

// NormalizeMood maps a free-form or model-produced emotion label onto one of
// the coarse mood labels. Unrecognised labels become MoodNeutral.
func NormalizeMood(label string) string {
	if m, ok := moodAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return m
	}
	return MoodNeutral
}

// IsKnownMood reports whether label (case-insensitive) maps to a coarse mood.
func IsKnownMood(label string) bool {
	_, ok := moodAliases[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

type MoodEntry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Mood      string    `bson:"mood" json:"mood"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	Source    string    `bson:"source" json:"source"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type MoodInput struct {
	UserID string `json:"userId"`
	Mood   string `json:"mood,omitempty"`
	Note   string `json:"note,omitempty"`
}
