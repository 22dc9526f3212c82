package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/backmassage/muxsweep/internal/result"
)

// Outcome labels, pre-populated so every series exists in the first export.
var outcomes = []string{"transcoded", "existing", "copied", "skipped", "unclassified", "failed"}

// Metrics holds the collectors of one process.
type Metrics struct {
	reg *prometheus.Registry

	LogMessages  *prometheus.CounterVec
	Files        *prometheus.CounterVec
	FileDuration *prometheus.HistogramVec
	BytesSaved   prometheus.Gauge
	RunDuration  prometheus.Gauge
	RunStatus    prometheus.Gauge
	RunFinished  prometheus.Gauge
	RunFailures  prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	m := &Metrics{
		reg: reg,
		LogMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muxsweep_log_messages_total",
				Help: "Total number of log messages by level",
			},
			[]string{"level"},
		),
		Files: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muxsweep_files_total",
				Help: "Total number of discovered files by outcome",
			},
			[]string{"outcome"},
		),
		FileDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "muxsweep_file_duration_seconds",
				Help:    "Time spent processing one file",
				Buckets: []float64{0.1, 1, 10, 30, 60, 300, 900, 1800, 3600, 7200},
			},
			[]string{"outcome"},
		),
		BytesSaved: f.NewGauge(prometheus.GaugeOpts{
			Name: "muxsweep_bytes_saved",
			Help: "Bytes saved by the run (negative when outputs grew)",
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "muxsweep_run_duration_seconds",
			Help: "Duration of the run",
		}),
		RunStatus: f.NewGauge(prometheus.GaugeOpts{
			Name: "muxsweep_run_status",
			Help: "1 when the run succeeded, 0 when it failed",
		}),
		RunFinished: f.NewGauge(prometheus.GaugeOpts{
			Name: "muxsweep_run_finished_timestamp_seconds",
			Help: "Unix time the run summary was exported",
		}),
		RunFailures: f.NewGauge(prometheus.GaugeOpts{
			Name: "muxsweep_run_failed_files",
			Help: "Number of files with exceptions or tolerance failures",
		}),
	}
	for _, o := range outcomes {
		m.Files.WithLabelValues(o)
		m.FileDuration.WithLabelValues(o)
	}
	for _, lvl := range logrus.AllLevels {
		m.LogMessages.WithLabelValues(lvl.String())
	}
	return m
}

// FileDone counts one processed file.
func (m *Metrics) FileDone(outcome string, elapsed time.Duration) {
	m.Files.WithLabelValues(outcome).Inc()
	m.FileDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveRun copies the run-level figures of s into the gauges.
func (m *Metrics) ObserveRun(s result.Summary) {
	m.BytesSaved.Set(float64(s.TotalSaved))
	m.RunDuration.Set(s.Elapsed.Seconds())
	m.RunFailures.Set(float64(len(s.Failed())))
	if s.Status {
		m.RunStatus.Set(1)
	} else {
		m.RunStatus.Set(0)
	}
	m.RunFinished.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

// Hook returns a logrus hook counting log entries by level.
func (m *Metrics) Hook() logrus.Hook {
	return &logHook{counter: m.LogMessages}
}

type logHook struct {
	counter *prometheus.CounterVec
}

func (h *logHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *logHook) Fire(e *logrus.Entry) error {
	h.counter.WithLabelValues(e.Level.String()).Inc()
	return nil
}
