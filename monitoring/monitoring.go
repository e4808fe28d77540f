package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful registrations",
	})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts successfully created",
	})

	FollowActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "follow_actions_total",
		Help: "Total follow and unfollow actions",
	}, []string{"action"})

	NotificationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total notifications created",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(FollowActions)
	prometheus.MustRegister(NotificationsCreated)
}

type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records the duration and status of every request.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := fmt.Sprintf("%d", rw.statusCode)
		RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
	})
}
