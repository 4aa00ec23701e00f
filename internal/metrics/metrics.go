// Package metrics defines and registers all custom Prometheus metrics for
// the role-play chat API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roleplay"

// ChatsCreatedTotal counts newly created chat sessions.
// Label:
//   - persona: the persona name the session was opened against
var ChatsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chats_created_total",
		Help:      "Total number of chat sessions created, by persona.",
	},
	[]string{"persona"},
)

// ChatTurnsTotal counts completed message turns (user message in, AI
// message persisted).
// Label:
//   - persona: the persona name answering the turn
var ChatTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_turns_total",
		Help:      "Total number of completed chat turns, by persona.",
	},
	[]string{"persona"},
)

// CompletionFallbacksTotal counts completion calls that were replaced by the
// fixed fallback reply.
// Label:
//   - reason: "error" (call failed) or "empty" (blank response)
var CompletionFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_fallbacks_total",
		Help:      "Total number of completion calls substituted with the fallback reply.",
	},
	[]string{"reason"},
)

// CompletionDuration measures how long a single completion call takes,
// failures included.
var CompletionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Duration of upstream completion calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
