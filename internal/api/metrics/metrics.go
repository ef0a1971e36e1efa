// Package metrics defines and registers all custom Prometheus metrics for the
// playlists API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on import through
// promauto. Per-route HTTP series come from the echoprometheus middleware
// wired in the router, which serves /metrics from the same registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "playlists"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok" or the error code (e.g. "invalid_password")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Playlist metrics ──────────────────────────────────────────────────────────

// TracksAddedTotal counts tracks added to playlists.
// Label:
//   - type: "external-video" or "audio-file"
var TracksAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracks_added_total",
		Help:      "Total number of tracks added to playlists, by track type.",
	},
	[]string{"type"},
)

var TracksRemovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracks_removed_total",
		Help:      "Total number of successful remove requests, including no-ops.",
	},
)

var RatingsUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_updated_total",
		Help:      "Total number of rating updates.",
	},
)

var PlaylistsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playlists_created_total",
		Help:      "Total number of playlists created explicitly.",
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts audio uploads.
// Label:
//   - result: "ok" or the error code (e.g. "unsupported_format")
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of audio uploads, by outcome.",
	},
	[]string{"result"},
)

// UploadBytes observes the declared size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size of accepted audio uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(64<<10, 2, 10), // 64KiB … 32MiB
	},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchRequestsTotal counts proxied video searches.
// Label:
//   - result: "ok" or the error code
var SearchRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Total number of video searches, by outcome.",
	},
	[]string{"result"},
)
