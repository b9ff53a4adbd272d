package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters for the poll lifecycle and the reminder scheduler. They are
// package-level because there is exactly one bot per process.
var (
	PollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friengo_polls_created_total",
		Help: "Number of polls created.",
	})

	PollsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friengo_polls_closed_total",
		Help: "Number of polls closed.",
	})

	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friengo_votes_cast_total",
		Help: "Number of votes accepted.",
	})

	VotesRetracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friengo_votes_retracted_total",
		Help: "Number of votes retracted.",
	})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friengo_reminders_sent_total",
		Help: "Number of scheduled reminders delivered, by stage.",
	}, []string{"stage"})

	ReminderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friengo_reminder_delivery_failures_total",
		Help: "Number of reminder deliveries that failed and will be retried.",
	})
)

// Handler returns the HTTP handler serving the Prometheus exposition
// endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
