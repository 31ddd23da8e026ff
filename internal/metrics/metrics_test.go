package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giro-settlement/internal/metrics"
)

func gather(t *testing.T) map[string]float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestMetrics(t *testing.T) {
	metrics.Init()
	metrics.Init()

	metrics.ObserveJob("avtalegiro", metrics.ResultSuccess, 2*time.Second)
	metrics.ObserveJob("avtalegiro", metrics.ResultBusy, 0)
	metrics.AddClaims("AVTALEGIRO", 3, 150000)
	metrics.AddClaims("AVTALEGIRO", 0, 0)
	metrics.IncInboundFile("mandates", metrics.ResultSuccess)
	metrics.AddChargeUpdates("CHARGED", 2)

	got := gather(t)
	assert.Equal(t, 1.0, got["giro_job_runs_total,job=avtalegiro,result=success"])
	assert.Equal(t, 1.0, got["giro_job_runs_total,job=avtalegiro,result=busy"])
	assert.Equal(t, 1.0, got["giro_job_latency_seconds,job=avtalegiro,result=success"])
	assert.NotContains(t, got, "giro_job_latency_seconds,job=avtalegiro,result=busy")
	assert.Greater(t, got["giro_job_last_success_timestamp_seconds,job=avtalegiro"], 0.0)
	assert.Equal(t, 3.0, got["giro_claims_sent_total,scheme=AVTALEGIRO"])
	assert.Equal(t, 150000.0, got["giro_claim_amount_minor_units_total,scheme=AVTALEGIRO"])
	assert.Equal(t, 1.0, got["giro_inbound_files_total,kind=mandates,result=success"])
	assert.Equal(t, 2.0, got["giro_charge_updates_total,status=CHARGED"])
}
