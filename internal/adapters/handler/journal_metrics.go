package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_records_created_total",
			Help: "Total number of check-ins created, labeled by assessed risk level",
		},
		[]string{"level"},
	)

	HospitalsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_hospitals_ingested_total",
			Help: "Total number of hospital facilities ingested",
		},
	)

)

// RegisterJournalMetrics registers all journal domain metrics
func RegisterJournalMetrics() {
	prometheus.MustRegister(RecordsCreatedTotal)
	prometheus.MustRegister(HospitalsIngestedTotal)
}
