package models

import (
	"strings"
	"time"

	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

// GoalTotal targets the user's total minutes across every activity type.
const GoalTotal = "Total"

// Goal is a per-type minutes target. A user has at most one goal per type.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Title         string    `json:"title,omitempty"`
	TargetMinutes float64   `json:"targetMinutes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GoalProgress is a goal together with how far the user has got.
type GoalProgress struct {
	Goal
	CurrentMinutes float64 `json:"currentMinutes"`
	Progress       float64 `json:"progress"`
	Completed      bool    `json:"completed"`
}

type GoalInput struct {
	UserID        string  `json:"userId"`
	Type          string  `json:"type"`
	Title         string  `json:"title,omitempty"`
	TargetMinutes float64 `json:"targetMinutes"`
}

// NewGoal validates the input and normalises the goal type.
func NewGoal(in GoalInput) (Goal, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return Goal{}, &utils.ValidationError{Field: "userId", Message: "userId is required"}
	}
	goalType := strings.TrimSpace(in.Type)
	if goalType == "" {
		return Goal{}, &utils.ValidationError{Field: "type", Message: "type is required"}
	}
	if strings.EqualFold(goalType, GoalTotal) {
		goalType = GoalTotal
	} else {
		goalType = NormalizeActivityType(goalType)
	}
	if in.TargetMinutes <= 0 {
		return Goal{}, &utils.ValidationError{Field: "targetMinutes", Message: "targetMinutes must be greater than 0"}
	}
	return Goal{
		UserID:        userID,
		Type:          goalType,
		Title:         strings.TrimSpace(in.Title),
		TargetMinutes: in.TargetMinutes,
	}, nil
}
