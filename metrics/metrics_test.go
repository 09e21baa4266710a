// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetMetrics(t *testing.T) {
	metrics = &noopMetrics{}
	t.Cleanup(func() { metrics = &noopMetrics{} })
}

func TestNoopMetrics(t *testing.T) {
	resetMetrics(t)

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounterVec", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, noopMeter{}, a)
	}
	assert.Nil(t, HTTPHandler())

	// must not panic
	Counter("c").Add(1)
	CounterVec("cv", []string{"op"}).AddWithLabel(1, map[string]string{"op": "stake"})
	Gauge("g").Set(3)
	Histogram("h", BucketQuota).Observe(7)
}

func TestPromMetrics(t *testing.T) {
	resetMetrics(t)
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	gauge1 := Gauge("gauge1")
	hist := Histogram("hist1", BucketQuota)

	count1.Add(1)
	Counter("count1").Add(2)

	total := 0
	for i := 0; i < 10; i++ {
		countVec.AddWithLabel(int64(i), map[string]string{"zeroOrOne": strconv.Itoa(i % 2)})
		hist.Observe(int64(i))
		total += i
	}
	gauge1.Set(5)
	gauge1.Add(-2)

	families, err := metrics.(*prometheusMetrics).registry.Gather()
	require.NoError(t, err)

	got := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		got[mf.GetName()] = mf
	}

	require.Contains(t, got, "feeless_count1")
	assert.Equal(t, float64(3), got["feeless_count1"].Metric[0].GetCounter().GetValue())

	vec := got["feeless_countVec1"]
	require.Len(t, vec.Metric, 2)
	assert.Equal(t, float64(total), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	assert.Equal(t, float64(3), got["feeless_gauge1"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(total), got["feeless_hist1"].Metric[0].GetHistogram().GetSampleSum())

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "feeless_count1 3")
}

func TestLazyLoading(t *testing.T) {
	resetMetrics(t)

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())

	// resolved once
	assert.Same(t, lazyGauge(), lazyGauge())
}
