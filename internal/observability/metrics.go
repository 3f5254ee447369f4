package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

const otherLabel = "other"

var (
	activitiesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "serenify",
		Subsystem: "activities",
		Name:      "recorded_total",
		Help:      "Activity records persisted, by activity type.",
	}, []string{"type"})
	dashboardCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "serenify",
		Subsystem: "dashboard",
		Name:      "cache_lookups_total",
		Help:      "Dashboard cache lookups by result (hit, miss, error).",
	}, []string{"result"})
	aiFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "serenify",
		Name:      "ai_failures_total",
		Help:      "Failed calls to an AI collaborator that fell back to the offline path.",
	}, []string{"collaborator"})
	eventPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "serenify",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Activity events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(activitiesRecorded, dashboardCache, aiFailures, eventPublishFailures)
}

// RecordActivity counts a persisted activity. Ad-hoc types share one label
// so user input cannot grow the series count.
func RecordActivity(activityType string) {
	activitiesRecorded.WithLabelValues(activityTypeLabel(activityType)).Inc()
}

// RecordDashboardCache counts a cache lookup result: "hit", "miss" or "error".
func RecordDashboardCache(result string) {
	dashboardCache.WithLabelValues(result).Inc()
}

// RecordAIFailure counts a failed call to the named collaborator.
func RecordAIFailure(collaborator string) {
	aiFailures.WithLabelValues(collaborator).Inc()
}

func RecordEventPublishFailure() {
	eventPublishFailures.Inc()
}

func activityTypeLabel(t string) string {
	switch t := models.NormalizeActivityType(t); t {
	case models.ActivityExercise, models.ActivityMeditation, models.ActivityJournal, models.ActivityUnknown:
		return t
	default:
		return otherLabel
	}
}
