// Package metrics provides Prometheus instrumentation for chat sessions:
// frame throughput, dropped frames, send rejections and connection state.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/soyeahso/lingochat/internal/logging"
)

var allStates = []domain.ConnectionState{
	domain.StateIdle,
	domain.StateConnecting,
	domain.StateOpen,
	domain.StateClosed,
	domain.StateErrored,
}

// Metrics holds the collectors for one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	framesReceived   prometheus.Counter
	framesDropped    prometheus.Counter
	messagesAppended prometheus.Counter
	messagesSent     prometheus.Counter
	sendRejected     *prometheus.CounterVec
	connectionState  *prometheus.GaugeVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lingochat_frames_received_total",
			Help: "Inbound frames read from the chat service",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lingochat_frames_dropped_total",
			Help: "Inbound frames discarded because they failed to decode",
		}),
		messagesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lingochat_messages_appended_total",
			Help: "Decoded messages appended to session history",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lingochat_messages_sent_total",
			Help: "Outgoing chat messages written to the connection",
		}),
		sendRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingochat_send_rejected_total",
			Help: "Outgoing messages rejected before transmission",
		}, []string{"reason"}), // reason = "not_connected", "empty", "too_long"
		connectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lingochat_connection_state",
			Help: "1 for the current connection state, 0 otherwise",
		}, []string{"state"}),
	}

	m.registry.MustRegister(
		m.framesReceived,
		m.framesDropped,
		m.messagesAppended,
		m.messagesSent,
		m.sendRejected,
		m.connectionState,
	)
	m.SetState(domain.StateIdle)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) FrameReceived() {
	if m != nil {
		m.framesReceived.Inc()
	}
}

func (m *Metrics) FrameDropped() {
	if m != nil {
		m.framesDropped.Inc()
	}
}

func (m *Metrics) MessageAppended() {
	if m != nil {
		m.messagesAppended.Inc()
	}
}

func (m *Metrics) MessageSent() {
	if m != nil {
		m.messagesSent.Inc()
	}
}

func (m *Metrics) SendRejected(reason string) {
	if m != nil {
		m.sendRejected.WithLabelValues(reason).Inc()
	}
}

// SetState marks s as the current connection state.
func (m *Metrics) SetState(s domain.ConnectionState) {
	if m == nil {
		return
	}
	for _, st := range allStates {
		v := 0.0
		if st == s {
			v = 1
		}
		m.connectionState.WithLabelValues(string(st)).Set(v)
	}
}

// Counts is a point-in-time read of the session counters.
type Counts struct {
	FramesReceived   float64
	FramesDropped    float64
	MessagesAppended float64
	MessagesSent     float64
}

// Counts reads the current counter values. A nil *Metrics reads zero.
func (m *Metrics) Counts() Counts {
	if m == nil {
		return Counts{}
	}
	return Counts{
		FramesReceived:   value(m.framesReceived),
		FramesDropped:    value(m.framesDropped),
		MessagesAppended: value(m.messagesAppended),
		MessagesSent:     value(m.messagesSent),
	}
}

// Rejected reads the send rejection count for reason.
func (m *Metrics) Rejected(reason string) float64 {
	if m == nil {
		return 0
	}
	return value(m.sendRejected.WithLabelValues(reason))
}

func value(c prometheus.Metric) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}
	return pb.Gauge.GetValue()
}

// Handler returns the Prometheus metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
