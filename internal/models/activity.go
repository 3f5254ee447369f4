package models

import (
	"strings"
	"time"

	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

// Known activity types. Any other non-empty type is kept as an ad-hoc label.
const (
	ActivityExercise   = "Exercise"
	ActivityMeditation = "Meditation"
	ActivityJournal    = "Journal"
	ActivityUnknown    = "Unknown"
)

// DateLayout is the calendar date format accepted on the write path.
const DateLayout = "2006-01-02"

var knownActivityTypes = []string{ActivityExercise, ActivityMeditation, ActivityJournal}

// ActivityRecord is one logged unit of exercise, meditation or journaling.
// Records are never updated or deleted once stored.
type ActivityRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Type      string    `bson:"type" json:"type"`
	Name      string    `bson:"name" json:"name"`
	Duration  float64   `bson:"duration" json:"duration"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ActivityInput is the raw, possibly partial, description of an activity as
// received from a client or produced by another feature (journal, meditation).
type ActivityInput struct {
	UserID   string   `json:"userId"`
	Type     string   `json:"type,omitempty"`
	Name     string   `json:"name"`
	Duration *float64 `json:"duration"`
	Date     string   `json:"date,omitempty"`
	Time     string   `json:"time,omitempty"`

	// At overrides Date/Time for internal producers that already hold a timestamp.
	At time.Time `json:"-"`
}

// NewActivityRecord applies every default an activity record can receive and
// validates the result. It is the only place records are constructed.
func NewActivityRecord(in ActivityInput, now time.Time) (ActivityRecord, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return ActivityRecord{}, &utils.ValidationError{Field: "userId", Message: "userId is required"}
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ActivityRecord{}, &utils.ValidationError{Field: "name", Message: "name is required"}
	}

	var duration float64
	if in.Duration != nil {
		duration = *in.Duration
	}
	if duration < 0 {
		return ActivityRecord{}, &utils.ValidationError{Field: "duration", Message: "duration must not be negative"}
	}

	date := in.At
	if date.IsZero() {
		parsed, err := parseActivityDate(in.Date, in.Time, now)
		if err != nil {
			return ActivityRecord{}, err
		}
		date = parsed
	}

	now = now.UTC()
	return ActivityRecord{
		UserID:    userID,
		Type:      NormalizeActivityType(in.Type),
		Name:      name,
		Duration:  duration,
		Date:      date.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the fields a store requires before persisting a record.
func (a ActivityRecord) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return &utils.ValidationError{Field: "userId", Message: "userId is required"}
	}
	if strings.TrimSpace(a.Name) == "" {
		return &utils.ValidationError{Field: "name", Message: "name is required"}
	}
	if a.Date.IsZero() {
		return &utils.ValidationError{Field: "date", Message: "date is required"}
	}
	return nil
}

// NormalizeActivityType canonicalises the casing of known types and maps an
// empty type to ActivityUnknown. Ad-hoc types are kept as given (trimmed).
func NormalizeActivityType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ActivityUnknown
	}
	for _, known := range knownActivityTypes {
		if strings.EqualFold(t, known) {
			return known
		}
	}
	if strings.EqualFold(t, ActivityUnknown) {
		return ActivityUnknown
	}
	return t
}

// parseActivityDate combines the optional date and time-of-day strings.
// A missing date means "today" (relative to now); a missing time keeps the
// date's own time, or now's time of day when only a date was given.
func parseActivityDate(dateStr, timeStr string, now time.Time) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)

	if dateStr == "" && timeStr == "" {
		return now, nil
	}

	var base time.Time
	dateOnly := false
	switch {
	case dateStr == "":
		base = now.UTC()
		dateOnly = true
	default:
		if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
			base = t
		} else if t, err := time.Parse(DateLayout, dateStr); err == nil {
			base = t
			dateOnly = true
		} else {
			return time.Time{}, &utils.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD or RFC3339"}
		}
	}

	if timeStr == "" {
		if dateOnly {
			n := now.UTC()
			return time.Date(base.Year(), base.Month(), base.Day(), n.Hour(), n.Minute(), n.Second(), 0, time.UTC), nil
		}
		return base, nil
	}

	tod, err := time.Parse("15:04", timeStr)
	if err != nil {
		tod, err = time.Parse("15:04:05", timeStr)
		if err != nil {
			return time.Time{}, &utils.ValidationError{Field: "time", Message: "time must be HH:MM"}
		}
	}
	return time.Date(base.Year(), base.Month(), base.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, base.Location()), nil
}
