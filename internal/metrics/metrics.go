package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileRounds counts reconciliation rounds by result:
	// changes, no_updates, fetch_error
	ReconcileRounds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_reconcile_rounds_total",
		Help: "The total number of reconciliation rounds by result",
	}, []string{"result"})

	// FeedMessages counts inbound messages evaluated by the engine
	FeedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_feed_messages_total",
		Help: "The total number of inbound feed messages processed",
	})

	// PasswordRejections counts config commands with a wrong password
	PasswordRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_config_password_rejections_total",
		Help: "The total number of config commands rejected for a bad password",
	})

	// RelayedMessages counts outbound messages delivered to the chat API
	RelayedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_relay_messages_total",
		Help: "The total number of outbound messages relayed to the chat API",
	})

	// RelayErrors counts failed outbound deliveries
	RelayErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_relay_errors_total",
		Help: "The total number of failed outbound deliveries",
	})

	// Notifications counts subscriber notifications by outcome: sent, failed
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_notifications_total",
		Help: "The total number of subscriber notifications by outcome",
	}, []string{"outcome"})
)
