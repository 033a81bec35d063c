package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthDecisions counts gate outcomes by transport (http, socket) and reason
	AuthDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamboard_auth_decisions_total",
		Help: "Authentication gate decisions partitioned by transport and outcome.",
	}, []string{"transport", "outcome"})

	// UserCacheLookups counts user snapshot lookups by result (hit, miss, error)
	UserCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamboard_user_cache_lookups_total",
		Help: "User snapshot cache lookups partitioned by result.",
	}, []string{"result"})

	// BlacklistStoreFailures counts blacklist checks that could not reach the store
	BlacklistStoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamboard_blacklist_store_failures_total",
		Help: "Blacklist lookups that failed, partitioned by the policy applied (open, closed).",
	}, []string{"policy"})

	// TokenRefreshes counts refresh endpoint outcomes
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamboard_token_refreshes_total",
		Help: "Token refresh attempts partitioned by outcome.",
	}, []string{"outcome"})

	// SocketConnections tracks currently open socket connections
	SocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "teamboard_socket_connections",
		Help: "Currently open WebSocket connections.",
	})

	// RoomEvents counts presence transitions (join, leave)
	RoomEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamboard_room_events_total",
		Help: "Room presence transitions partitioned by event.",
	}, []string{"event"})
)
