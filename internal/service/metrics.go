package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okane_commands_total",
		Help: "Slash commands processed, by command name and outcome.",
	}, []string{"command", "outcome"})

	componentEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okane_component_events_total",
		Help: "Component interactions processed, by event and outcome.",
	}, []string{"event", "outcome"})
)

func observeCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

func observeComponent(event, outcome string) {
	componentEventsTotal.WithLabelValues(event, outcome).Inc()
}
