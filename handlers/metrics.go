package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supapass_device_registrations_total",
		Help: "Successful PassKit device registrations.",
	})
	unregistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supapass_device_unregistrations_total",
		Help: "Successful PassKit device unregistrations.",
	})
	passesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supapass_passes_generated_total",
		Help: "Signed pkpass archives produced.",
	})
	generationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supapass_pass_generation_failures_total",
		Help: "Pass generation attempts that failed.",
	})
)
