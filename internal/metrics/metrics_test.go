package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounts(t *testing.T) {
	p := NewPrometheus()
	p.Optimistic("addClient")
	p.Optimistic("addClient")
	p.Remote("InsertClient", OutcomeOK)
	p.Remote("InsertClient", OutcomeError)
	p.Remote("InsertClient", OutcomeError)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.optimistic.WithLabelValues("addClient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.remote.WithLabelValues("InsertClient", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.remote.WithLabelValues("InsertClient", OutcomeError)))
}

func TestPrometheusWriteText(t *testing.T) {
	p := NewPrometheus()
	p.Remote("DeleteCard", OutcomeSkipped)

	var buf bytes.Buffer
	require.NoError(t, p.WriteText(&buf))
	assert.Contains(t, buf.String(), `pinboard_remote_calls_total{op="DeleteCard",outcome="skipped"} 1`)
}

func TestNopIsRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.Optimistic("x")
	r.Remote("y", OutcomeOK)
}
