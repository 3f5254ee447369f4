package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

type GoalStore interface {
	Upsert(ctx context.Context, g models.Goal) (models.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]models.Goal, error)
}

// Overview is everything the home screen needs in one response.
type Overview struct {
	Dashboard DashboardSummary      `json:"dashboard"`
	Goals     []models.GoalProgress `json:"goals"`
	Reward    Reward                `json:"reward"`
}

type GoalService struct {
	store      GoalStore
	activities *ActivityService
}

func NewGoalService(store GoalStore, activities *ActivityService) *GoalService {
	return &GoalService{store: store, activities: activities}
}

// Upsert creates the user's goal for a type or replaces its target.
func (s *GoalService) Upsert(ctx context.Context, in models.GoalInput) (models.Goal, error) {
	g, err := models.NewGoal(in)
	if err != nil {
		return models.Goal{}, err
	}
	stored, err := s.store.Upsert(ctx, g)
	if err != nil {
		return models.Goal{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return stored, nil
}

// List returns the user's goals with progress against the dashboard totals.
func (s *GoalService) List(ctx context.Context, userID string) ([]models.GoalProgress, error) {
	o, err := s.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.Goals, nil
}

// Overview loads the dashboard and the goals concurrently.
func (s *GoalService) Overview(ctx context.Context, userID string) (Overview, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return Overview{}, err
	}

	var (
		summary DashboardSummary
		goals   []models.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.activities.Dashboard(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Dashboard: summary,
		Goals:     GoalProgressFor(goals, summary),
		Reward:    CalculateReward(summary.TotalMinutes),
	}, nil
}

// GoalProgressFor measures each goal against summary. Total goals use the
// overall minutes; every other goal uses its type's minutes.
func GoalProgressFor(goals []models.Goal, summary DashboardSummary) []models.GoalProgress {
	out := make([]models.GoalProgress, 0, len(goals))
	for _, g := range goals {
		current := summary.ByType[g.Type].Minutes
		if g.Type == models.GoalTotal {
			current = summary.TotalMinutes
		}

		var progress float64
		if g.TargetMinutes > 0 {
			progress = round1(current / g.TargetMinutes * 100)
			if progress > 100 {
				progress = 100
			}
		}
		out = append(out, models.GoalProgress{
			Goal:           g,
			CurrentMinutes: current,
			Progress:       progress,
			Completed:      current >= g.TargetMinutes,
		})
	}
	return out
}
