package models

import "time"

// MeditationSession is a completed meditation, stored alongside the activity
// record it produced.
type MeditationSession struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"userId"`
	Name       string    `bson:"name" json:"name"`
	Technique  string    `bson:"technique,omitempty" json:"technique,omitempty"`
	Duration   float64   `bson:"duration" json:"duration"`
	Date       time.Time `bson:"date" json:"date"`
	ActivityID string    `bson:"activity_id" json:"activityId"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

type MeditationInput struct {
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Technique string   `json:"technique,omitempty"`
	Duration  *float64 `json:"duration"`
	Date      string   `json:"date,omitempty"`
	Time      string   `json:"time,omitempty"`
}
