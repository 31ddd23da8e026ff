package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "giro_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultBusy    = "busy"
)

var (
	registerOnce sync.Once

	jobRuns    *prometheus.CounterVec
	jobLatency *prometheus.HistogramVec

	claimsSent    *prometheus.CounterVec
	claimAmount   *prometheus.CounterVec
	filesReceived *prometheus.CounterVec
	chargeUpdates *prometheus.CounterVec
	lastSuccess   *prometheus.GaugeVec
)

// Init registers the collectors with the default registry. Calls after the
// first are no-ops.
func Init() {
	registerOnce.Do(func() {
		jobRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "job_runs_total",
				Help: "Total scheduled job runs by job and result",
			},
			[]string{"job", "result"},
		)
		jobLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "job_latency_seconds",
				Help:    "Scheduled job latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job", "result"},
		)
		claimsSent = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "claims_sent_total",
				Help: "Total claims delivered to the bank by scheme",
			},
			[]string{"scheme"},
		)
		claimAmount = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "claim_amount_minor_units_total",
				Help: "Total claimed amount in minor units by scheme",
			},
			[]string{"scheme"},
		)
		filesReceived = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "inbound_files_total",
				Help: "Total inbound bank files by kind and result",
			},
			[]string{"kind", "result"},
		)
		chargeUpdates = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "charge_updates_total",
				Help: "Total charge status updates by target status",
			},
			[]string{"status"},
		)
		lastSuccess = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "job_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run by job",
			},
			[]string{"job"},
		)

		prometheus.MustRegister(jobRuns, jobLatency, claimsSent, claimAmount, filesReceived, chargeUpdates, lastSuccess)
	})
}

// ObserveJob records a job run's duration and result.
func ObserveJob(job, result string, duration time.Duration) {
	if jobRuns == nil {
		return
	}
	jobRuns.WithLabelValues(job, result).Inc()
	if result == ResultBusy {
		return
	}
	jobLatency.WithLabelValues(job, result).Observe(duration.Seconds())
	if result == ResultSuccess {
		lastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}

// AddClaims counts claims delivered in one file.
func AddClaims(scheme string, count int, amount int64) {
	if claimsSent == nil || count <= 0 {
		return
	}
	claimsSent.WithLabelValues(scheme).Add(float64(count))
	claimAmount.WithLabelValues(scheme).Add(float64(amount))
}

// IncInboundFile counts an inbound file by report kind.
func IncInboundFile(kind, result string) {
	if filesReceived == nil {
		return
	}
	filesReceived.WithLabelValues(kind, result).Inc()
}

// AddChargeUpdates counts charges moved to status.
func AddChargeUpdates(status string, count int) {
	if chargeUpdates == nil || count <= 0 {
		return
	}
	chargeUpdates.WithLabelValues(status).Add(float64(count))
}
