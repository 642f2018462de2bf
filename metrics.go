package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizbattle_active_rooms",
		Help: "Number of live rooms.",
	})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizbattle_active_connections",
		Help: "Number of connected players across all rooms.",
	})

	roomsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizbattle_rooms_created_total",
		Help: "Total rooms created since start.",
	})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizbattle_messages_total",
		Help: "Inbound messages handled, by type.",
	}, []string{"type"})

	phaseTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizbattle_phase_transitions_total",
		Help: "Phase transitions, by destination phase.",
	}, []string{"phase"})
)
