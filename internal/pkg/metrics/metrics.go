package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters for the booking engine. Registered on the default registry so the
// promhttp handler picks them up without extra wiring.
var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Number of visit bookings created.",
	})

	SlotConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Number of booking attempts rejected because the slot was taken.",
	})

	VisitTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visit_transitions_total",
		Help: "Number of visit state transitions, labeled by target state.",
	}, []string{"to"})

	RewardCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_credits_total",
		Help: "Number of reward ledger credit operations.",
	})
)

// Handler adapts the promhttp scrape endpoint to gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
