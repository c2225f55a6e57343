// Package metrics exposes the bot's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kylef/irctk/irc"
)

var (
	// Connected is 1 while a connection to the server is up.
	Connected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "irctk_connected",
		Help: "Whether the bot is connected (1) or not (0)",
	})

	// Registered is 1 once the server accepted the registration.
	Registered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "irctk_registered",
		Help: "Whether the bot is registered (1) or not (0)",
	})

	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irctk_reconnects_total",
		Help: "Total number of connection attempts after the first one",
	})

	LinesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irctk_lines_received_total",
		Help: "Total number of IRC lines read from the server",
	})

	LinesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irctk_lines_sent_total",
		Help: "Total number of IRC lines written to the server",
	})

	// Channels is the number of channels the session tracks.
	Channels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "irctk_channels",
		Help: "Number of tracked channels",
	})

	Events = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irctk_events_total",
			Help: "Total number of session events per type",
		},
		[]string{"type"},
	)

	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irctk_commands_total",
			Help: "Total number of bot commands run per command",
		},
		[]string{"command"},
	)

	// MessageProcessingTime is the time spent in the session and the
	// subscribers for one incoming line.
	MessageProcessingTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irctk_message_processing_seconds",
			Help:    "Time to process an incoming line",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)

// ObserveEvents counts events by type.
func ObserveEvents(events []irc.Event) {
	for _, ev := range events {
		Events.WithLabelValues(EventType(ev)).Inc()
	}
}

func EventType(ev irc.Event) string {
	switch ev.(type) {
	case irc.RegisteredEvent:
		return "registered"
	case irc.DisconnectedEvent:
		return "disconnected"
	case irc.MessageEvent:
		return "message"
	case irc.PrivateMessageEvent:
		return "private_message"
	case irc.ChannelMessageEvent:
		return "channel_message"
	case irc.JoinEvent:
		return "join"
	case irc.PartEvent:
		return "part"
	case irc.KickEvent:
		return "kick"
	case irc.QuitEvent:
		return "quit"
	case irc.TopicEvent:
		return "topic"
	case irc.NickEvent:
		return "nick"
	default:
		return "other"
	}
}
