package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	dto "github.com/prometheus/client_model/go"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry/registrytest"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

func lookup(t *testing.T, ids ...string) []core.Test {
	t.Helper()
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))

	tests := make([]core.Test, 0, len(ids))
	for _, id := range ids {
		test, err := reg.Lookup(id)
		require.NoError(t, err)
		tests = append(tests, test)
	}
	return tests
}

// gathered returns the metrics of family name, keyed by their state label
// ("" for unlabelled metrics).
func gathered(t *testing.T, l *Listener, name string) map[string]*dto.Metric {
	t.Helper()

	families, err := l.Registry().Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.Metric)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			state := ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "state" {
					state = lp.GetValue()
				}
			}
			out[state] = m
		}
	}
	return out
}

func running(t *testing.T, l *Listener) float64 {
	t.Helper()
	return gathered(t, l, "testbox_tests_running")[""].GetGauge().GetValue()
}

func TestListener(t *testing.T) {
	tests := lookup(t, "hidpp", "hidpp.ping", "hidpp.name", "hidpp.dpi.get")
	suite, ping, name, get := tests[0], tests[1], tests[2], tests[3]

	l := NewListener()
	l.StartTest(suite)
	l.StartTest(ping)
	l.StartTest(name)
	assert.Equal(t, 2.0, running(t, l))

	l.AddSuccess(ping)
	l.AddFailure(name, errors.New("bad name"))
	assert.Equal(t, 0.0, running(t, l))

	// Reported without a start, as for a failed suite setup.
	l.AddError(get, errors.New("setup failed"))

	totals := gathered(t, l, "testbox_tests_total")
	for _, state := range []string{"success", "failure", "error"} {
		require.Contains(t, totals, state)
		assert.Equal(t, 1.0, totals[state].GetCounter().GetValue(), state)
	}
	assert.Equal(t, 0.0, running(t, l))

	durations := gathered(t, l, "testbox_test_duration_seconds")
	assert.Len(t, durations, 2)
	assert.EqualValues(t, 1, durations["success"].GetHistogram().GetSampleCount())
}

func TestServe(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	l := NewListener()
	l.AddSuccess(lookup(t, "hidpp.ping")[0])

	s, err := Serve("127.0.0.1:0", l, logger)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Shutdown(context.Background()))
	}()

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `testbox_tests_total{state="success"} 1`)
	assert.Contains(t, string(body), "testbox_tests_running 0")
}
