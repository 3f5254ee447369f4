package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.db")
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	store := database.NewSQLiteActivityStore(db)
	for i, rec := range []struct {
		name    string
		kind    string
		day     int
		minutes float64
	}{
		{"Run", models.ActivityExercise, 10, 30},
		{"Breathe", models.ActivityMeditation, 9, 10},
		{"Walk", models.ActivityExercise, 5, 20},
	} {
		at := time.Date(2024, 1, rec.day, 8, i, 0, 0, time.UTC)
		_, err := store.Insert(context.Background(), models.ActivityRecord{
			UserID: "u1", Name: rec.name, Type: rec.kind, Duration: rec.minutes,
			Date: at, CreatedAt: at, UpdatedAt: at,
		})
		require.NoError(t, err)
	}
	return path
}

func TestDashboardCommandJSON(t *testing.T) {
	path := seedSQLite(t)

	out, err := run(t, "dashboard", "--user", "u1", "--sqlite", path, "--json")
	require.NoError(t, err)

	var summary services.DashboardSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 60.0, summary.TotalMinutes)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 2, summary.Streak)
	assert.Equal(t, "Jan 10, 2024", summary.LastActivity)
	assert.Equal(t, 83.3, summary.ByType[models.ActivityExercise].Progress)
}

func TestDashboardCommandText(t *testing.T) {
	path := seedSQLite(t)

	out, err := run(t, "dashboard", "--user", "u1", "--sqlite", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Dashboard for u1")
	assert.Contains(t, out, "Meditation")
	assert.Contains(t, out, "16.7%")
}

func TestDashboardCommandUnknownUser(t *testing.T) {
	path := seedSQLite(t)

	out, err := run(t, "dashboard", "--user", "ghost", "--sqlite", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"lastActivity": "-"`)
	assert.Contains(t, out, `"streak": 0`)
}

func TestDashboardCommandRequiresUser(t *testing.T) {
	_, err := run(t, "dashboard", "--sqlite", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestRewardCommand(t *testing.T) {
	out, err := run(t, "reward", "--minutes", "225", "--json")
	require.NoError(t, err)

	var reward services.Reward
	require.NoError(t, json.Unmarshal([]byte(out), &reward))
	assert.Equal(t, services.Reward{XP: 225, Badge: services.BadgeSilver, NextBadge: services.BadgeGold, XPToNextBadge: 276}, reward)

	out, err = run(t, "reward", "--minutes", "40", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Bronze")

	_, err = run(t, "reward", "--minutes", "-1")
	assert.Error(t, err)
}
