package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CallUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callaudit_call_uploads_total",
		Help: "Call recording uploads by outcome.",
	}, []string{"outcome"})

	Transcriptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callaudit_transcriptions_total",
		Help: "Transcription requests by outcome.",
	}, []string{"outcome"})

	TranscriptionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callaudit_transcription_duration_seconds",
		Help:    "Wall time spent waiting on the transcription service.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	ScoreSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callaudit_score_submissions_total",
		Help: "Quality score submissions by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Handler exposes the prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
