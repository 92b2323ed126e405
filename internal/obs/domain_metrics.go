package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PayloadGenerationTotal counts payment payload generation outcomes per channel.
	PayloadGenerationTotal *prometheus.CounterVec
	// CheckoutTotal counts finalize attempts by result.
	CheckoutTotal *prometheus.CounterVec
	// LookupMissTotal counts scanned or typed codes that matched no product.
	LookupMissTotal prometheus.Counter
	// SessionsOpenedTotal counts invoice sessions by entry channel.
	SessionsOpenedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PayloadGenerationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_generation_total",
			Help:      "Count of payment payload generation outcomes.",
		}, []string{"channel", "result"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of transaction finalize outcomes.",
		}, []string{"result"})
		LookupMissTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_miss_total",
			Help:      "Number of scan or search codes that matched no product.",
		})
		SessionsOpenedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Number of invoice sessions opened by entry channel.",
		}, []string{"entry"})

		mustRegisterCollector(reg, PayloadGenerationTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PayloadGenerationTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, LookupMissTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LookupMissTotal = v
			}
		})
		mustRegisterCollector(reg, SessionsOpenedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SessionsOpenedTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reuse(are.ExistingCollector)
			return
		}
		panic(err)
	}
}
