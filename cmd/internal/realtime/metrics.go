package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Move result labels.
const (
	MoveApplied   = "applied"
	MoveRejected  = "rejected"
	MoveDiscarded = "discarded"
)

// Session end reason labels.
const (
	endReasonTerminal   = "terminal"
	endReasonDisconnect = "disconnect"
)

// Metrics bundles the hub's prometheus collectors.
type Metrics struct {
	ConnectionsOpen prometheus.Gauge
	PlayersWaiting  prometheus.Gauge
	SessionsActive  prometheus.Gauge
	SessionsStarted prometheus.Counter
	SessionsEnded   *prometheus.CounterVec
	Moves           *prometheus.CounterVec
}

// NewMetrics constructs the hub collectors and registers them with reg.
// A nil registerer yields working but unregistered collectors (tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ConnectionsOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "gambit_connections_open",
			Help: "Open websocket connections (presence count).",
		}),
		PlayersWaiting: f.NewGauge(prometheus.GaugeOpts{
			Name: "gambit_players_waiting",
			Help: "Connections waiting in the matchmaking queue.",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "gambit_sessions_active",
			Help: "Active two-player sessions.",
		}),
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "gambit_sessions_started_total",
			Help: "Sessions created by the matchmaking queue.",
		}),
		SessionsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gambit_sessions_ended_total",
			Help: "Sessions destroyed, by reason.",
		}, []string{"reason"}),
		Moves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gambit_moves_total",
			Help: "Move submissions, by result.",
		}, []string{"result"}),
	}
}
