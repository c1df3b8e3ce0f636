package server

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/printer"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/undo"
)

type metrics struct {
	commands *prometheus.CounterVec
	exports  *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_commands_total",
			Help: "Commands handled, by operation and result.",
		}, []string{"op", "result"}),
		exports: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_export_duration_seconds",
			Help:    "Time spent producing exports, by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
	}
	reg.MustRegister(m.commands, m.exports)
	return m
}

func (m *metrics) observe(op string, err error) {
	m.commands.WithLabelValues(op, result(err)).Inc()
}

// result names the class of err for metric labels.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, document.ErrValidation):
		return "validation"
	case errors.Is(err, document.ErrIndex):
		return "index"
	case errors.Is(err, codec.ErrFormat):
		return "format"
	case errors.Is(err, undo.ErrEmpty):
		return "empty"
	case errors.Is(err, session.ErrBusy):
		return "busy"
	case errors.Is(err, session.ErrSave):
		return "save"
	case errors.Is(err, printer.ErrExport):
		return "export"
	}
	return "error"
}
