package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteRecalcTotal counts payable summary recomputations.
	QuoteRecalcTotal prometheus.Counter
	// QuoteConfirmTotal counts quote confirmation outcomes.
	QuoteConfirmTotal *prometheus.CounterVec
	// ChargePresetTotal counts preset charge additions by kind.
	ChargePresetTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers the domain-specific
// Prometheus collectors. Calls before registration are silently dropped so
// tests can exercise services without a registry.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteRecalcTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_recalc_total",
			Help:      "Count of draft quote summary recomputations.",
		})
		QuoteConfirmTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_confirm_total",
			Help:      "Count of quote confirmation outcomes.",
		}, []string{"result"})
		ChargePresetTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charge_preset_total",
			Help:      "Count of preset special-charge additions by kind.",
		}, []string{"preset"})
		reg.MustRegister(QuoteRecalcTotal, QuoteConfirmTotal, ChargePresetTotal)
	})
}

// ObserveQuoteRecalc increments the recomputation counter when registered.
func ObserveQuoteRecalc() {
	if QuoteRecalcTotal != nil {
		QuoteRecalcTotal.Inc()
	}
}

// ObserveQuoteConfirm records one confirmation outcome when registered.
func ObserveQuoteConfirm(result string) {
	if QuoteConfirmTotal != nil {
		QuoteConfirmTotal.WithLabelValues(result).Inc()
	}
}

// ObserveChargePreset records one preset addition when registered.
func ObserveChargePreset(preset string) {
	if ChargePresetTotal != nil {
		ChargePresetTotal.WithLabelValues(preset).Inc()
	}
}
