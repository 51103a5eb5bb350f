// Package metrics exposes Prometheus counters/histograms for the
// generation pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts generate_definition calls by terminal outcome
	// (accepted/rejected/error).
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "definitie_generations_total",
		Help: "Total generate_definition calls by outcome.",
	}, []string{"outcome"})

	// PhaseDuration measures how long each orchestrator phase takes.
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "definitie_phase_duration_seconds",
		Help:    "Duration of each generation pipeline phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	// ValidationViolationsTotal counts violations raised by rule id/severity.
	ValidationViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "definitie_validation_violations_total",
		Help: "Total validation violations by rule id and severity.",
	}, []string{"rule_id", "severity"})

	// AIProviderCallsTotal counts AI backend invocations by provider/outcome.
	AIProviderCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "definitie_ai_provider_calls_total",
		Help: "Total AI provider Generate calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	// AIProviderDuration measures AI backend call latency.
	AIProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "definitie_ai_provider_duration_seconds",
		Help:    "Duration of AI provider Generate calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	// SynonymCacheTotal counts synonym cache lookups by hit/miss.
	SynonymCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "definitie_synonym_cache_total",
		Help: "Total synonym cache lookups by result.",
	}, []string{"result"})

	// DuplicateCandidatesFound records the candidate count find_duplicates returns.
	DuplicateCandidatesFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "definitie_duplicate_candidates_found",
		Help:    "Number of duplicate candidates returned per find_duplicates call.",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
	})

	// WebLookupCallsTotal counts web lookup collaborator calls by outcome.
	WebLookupCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "definitie_web_lookup_calls_total",
		Help: "Total web lookup collaborator calls by outcome.",
	}, []string{"outcome"})
)

// RecordGeneration increments GenerationsTotal for the given outcome.
func RecordGeneration(outcome string) {
	GenerationsTotal.WithLabelValues(outcome).Inc()
}

// RecordPhase observes how long a named phase took.
func RecordPhase(phase string, d time.Duration) {
	PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordViolation increments ValidationViolationsTotal for a rule/severity pair.
func RecordViolation(ruleID, severity string) {
	ValidationViolationsTotal.WithLabelValues(ruleID, severity).Inc()
}

// RecordAIProviderCall records an AI backend call's outcome and latency.
func RecordAIProviderCall(provider, outcome string, d time.Duration) {
	AIProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
	AIProviderDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordSynonymCacheResult increments SynonymCacheTotal for "hit" or "miss".
func RecordSynonymCacheResult(result string) {
	SynonymCacheTotal.WithLabelValues(result).Inc()
}

// RecordDuplicateCandidates observes the candidate count of one find_duplicates call.
func RecordDuplicateCandidates(n int) {
	DuplicateCandidatesFound.Observe(float64(n))
}

// RecordWebLookupCall increments WebLookupCallsTotal for the given outcome.
func RecordWebLookupCall(outcome string) {
	WebLookupCallsTotal.WithLabelValues(outcome).Inc()
}

// Timer measures elapsed wall time for a single phase or call.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// RecordPhase observes the timer's elapsed duration against PhaseDuration.
func (t *Timer) RecordPhase(phase string) {
	RecordPhase(phase, t.Elapsed())
}
