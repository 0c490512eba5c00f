package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Métricas del flujo de login social. Paquete propio para evitar ciclos
// de import entre servicios y HTTP.

var (
	LoginOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_login_outcomes_total",
		Help: "Resultados de logins sociales por proveedor",
	}, []string{"provider", "outcome"})

	ExchangeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_exchange_latency_ms",
		Help:    "Latencia del intercambio code/token en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"provider"})

	AccountsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_accounts_created_total",
		Help: "Cuentas creadas desde un login social",
	}, []string{"provider"})
)

// Outcomes estándar para LoginOutcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeStateMismatch = "state_mismatch"
	OutcomeExchangeFail  = "exchange_failed"
	OutcomeVerifyFail    = "verification_failed"
	OutcomeProfileFail   = "profile_unavailable"
	OutcomeNeedsEmail    = "needs_email"
	OutcomeConflict      = "account_conflict"
	OutcomeError         = "error"
)

// Register registra las métricas en el registry dado (default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{LoginOutcomes, ExchangeLatency, AccountsCreated} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler expone el endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
