package services

import (
	"math"
	"sort"
	"time"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

const (
	// StreakGapToleranceDays is the largest gap between two consecutive
	// distinct activity days that still continues a streak.
	StreakGapToleranceDays = 1.5

	// NoActivityPlaceholder is shown as lastActivity when a user has no records.
	NoActivityPlaceholder = "-"

	// LastActivityLayout renders the most recent activity date.
	LastActivityLayout = "Jan 2, 2006"
)

// TypeBreakdown aggregates one activity type. Progress is the type's share of
// the user's total minutes, in percent with one decimal.
type TypeBreakdown struct {
	Minutes  float64 `json:"minutes"`
	Sessions int     `json:"sessions"`
	Progress float64 `json:"progress"`
}

// DashboardSummary is what the dashboard screen shows for one user.
type DashboardSummary struct {
	TotalMinutes     float64                  `json:"totalMinutes"`
	TotalSessions    int                      `json:"totalSessions"`
	Streak           int                      `json:"streak"`
	LastActivity     string                   `json:"lastActivity"`
	LastActivityName string                   `json:"lastActivityName"`
	LastActivityAt   *time.Time               `json:"lastActivityAt"`
	ByType           map[string]TypeBreakdown `json:"byType"`
}

// ComputeDashboard aggregates a user's complete record set, bucketing days in UTC.
func ComputeDashboard(records []models.ActivityRecord) DashboardSummary {
	return ComputeDashboardIn(records, time.UTC)
}

// ComputeDashboardIn is ComputeDashboard with calendar days taken in loc.
// The input slice is not modified and its order is not trusted.
func ComputeDashboardIn(records []models.ActivityRecord, loc *time.Location) DashboardSummary {
	if loc == nil {
		loc = time.UTC
	}

	summary := DashboardSummary{
		LastActivity: NoActivityPlaceholder,
		ByType:       make(map[string]TypeBreakdown),
	}
	if len(records) == 0 {
		return summary
	}

	sorted := make([]models.ActivityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	for _, rec := range sorted {
		summary.TotalMinutes += rec.Duration
		summary.TotalSessions++

		key := models.NormalizeActivityType(rec.Type)
		b := summary.ByType[key]
		b.Minutes += rec.Duration
		b.Sessions++
		summary.ByType[key] = b
	}

	for key, b := range summary.ByType {
		b.Progress = percentOf(b.Minutes, summary.TotalMinutes)
		summary.ByType[key] = b
	}

	latest := sorted[0]
	lastAt := latest.Date
	summary.LastActivity = latest.Date.In(loc).Format(LastActivityLayout)
	summary.LastActivityName = latest.Name
	summary.LastActivityAt = &lastAt
	summary.Streak = computeStreak(distinctDays(sorted, loc))

	return summary
}

// distinctDays truncates each date to midnight in loc and drops repeats.
// sorted must already be in descending date order.
func distinctDays(sorted []models.ActivityRecord, loc *time.Location) []time.Time {
	days := make([]time.Time, 0, len(sorted))
	for _, rec := range sorted {
		d := rec.Date.In(loc)
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		if len(days) > 0 && days[len(days)-1].Equal(day) {
			continue
		}
		days = append(days, day)
	}
	return days
}

// computeStreak walks descending distinct days from the most recent one and
// stops at the first gap wider than StreakGapToleranceDays.
func computeStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		gap := days[i-1].Sub(days[i]).Hours() / 24
		if gap > StreakGapToleranceDays {
			break
		}
		streak++
	}
	return streak
}

// percentOf returns part/total*100 rounded to one decimal and clamped to
// [0, 100]. A zero total yields 0.
func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	p := round1(part / total * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
