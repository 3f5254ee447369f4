package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/serenify-companion/internal/handlers"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Route("/api", func(r chi.Router) {
		// Dashboard and rewards
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/dashboard/{userId}", h.GetDashboard)
		r.Get("/rewards/{userId}", h.GetReward)
		r.Get("/overview/{userId}", h.GetOverview)

		// Activity log
		r.Post("/activities", h.CreateActivity)
		r.Get("/activities", h.ListActivities)

		// Journaling
		r.Post("/journals", h.CreateJournal)
		r.Get("/journals", h.GetJournals)

		// Meditation and mood check-ins
		r.Post("/meditations", h.CompleteMeditation)
		r.Get("/meditations", h.ListMeditations)
		r.Post("/moods", h.LogMood)
		r.Get("/moods", h.ListMoods)

		// Goals
		r.Put("/goals", h.UpsertGoal)
		r.Get("/goals/{userId}", h.GetGoals)

		// Anonymous accounts
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/signin", h.Signin)
		r.Get("/auth/me", h.GetMe)
		r.Post("/auth/signout", h.Signout)

		// Journal attachments
		r.Post("/uploads", h.UploadFile)
	})
}
