package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lifecycleEventsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lending",
		Subsystem: "lifecycle",
		Name:      "events_executed_total",
		Help:      "Scheduled loan events executed, by event type.",
	}, []string{"event_type"})

	lifecyclePaymentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lending",
		Subsystem: "lifecycle",
		Name:      "payments_applied_total",
		Help:      "Payments run through the allocation waterfall.",
	})

	lifecycleLoansClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lending",
		Subsystem: "lifecycle",
		Name:      "loans_closed_total",
		Help:      "Loans fully retired.",
	})

	lifecycleSweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lending",
		Subsystem: "lifecycle",
		Name:      "sweep_duration_seconds",
		Help:      "Wall time of a full lifecycle sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	scoringOutcomesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lending",
		Subsystem: "scoring",
		Name:      "outcomes_applied_total",
		Help:      "Credit outcomes folded into a score, by outcome type.",
	}, []string{"outcome_type"})

	scoringOutcomesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lending",
		Subsystem: "scoring",
		Name:      "outcomes_rejected_total",
		Help:      "Credit outcomes rejected for falling outside the unit interval.",
	})
)
