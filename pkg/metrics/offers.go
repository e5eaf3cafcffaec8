package metrics

import "github.com/prometheus/client_golang/prometheus"

// OfferMetrics tracks offer lifecycle transitions.
type OfferMetrics struct {
	transitions *prometheus.CounterVec
	accepts     *prometheus.CounterVec
}

// NewOfferMetrics registers offer lifecycle metrics on the provided registerer.
func NewOfferMetrics(reg prometheus.Registerer) *OfferMetrics {
	if reg == nil {
		return &OfferMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_transitions_total",
		Help: "Offer status transitions by target status.",
	}, []string{"status"})
	accepts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_accept_attempts_total",
		Help: "Public acceptance attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(transitions, accepts)
	return &OfferMetrics{transitions: transitions, accepts: accepts}
}

// IncTransition records a lifecycle transition into the given status.
func (o *OfferMetrics) IncTransition(status string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncAcceptAttempt records a public acceptance attempt outcome
// (accepted, conflict, not_found, rate_limited).
func (o *OfferMetrics) IncAcceptAttempt(outcome string) {
	if o == nil || o.accepts == nil {
		return
	}
	o.accepts.WithLabelValues(normalizeLabel(outcome)).Inc()
}
