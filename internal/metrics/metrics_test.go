package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/dsxform/internal/analytics"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

func TestRecorder_CountsClicksFromAnalytics(t *testing.T) {
	r := NewRecorder()
	pub := analytics.NewPublisher(logger.Discard())
	pub.Subscribe(transform.ButtonClickedEvent, r.HandleEvent)

	pub.Capture(transform.ButtonClickedEvent, map[string]any{"transform_button": "download-urls"})
	pub.Capture(transform.ButtonClickedEvent, map[string]any{"transform_button": "download-urls"})
	pub.Capture(transform.ButtonClickedEvent, map[string]any{"transform_button": "relabel"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.clicks.WithLabelValues("download-urls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.clicks.WithLabelValues("relabel")))
}

func TestRecorder_HandleEventRequiresButton(t *testing.T) {
	r := NewRecorder()
	require.Error(t, r.HandleEvent(analytics.Event{Name: transform.ButtonClickedEvent}))
}

func TestRecorder_Mutations(t *testing.T) {
	r := NewRecorder()
	r.ObserveMutation("remove-invalid-samples", nil)
	r.ObserveMutation("remove-invalid-samples", errors.New("disk full"))
	r.ObserveTransform("remove-invalid-samples", 20*time.Millisecond, nil)
	r.SetPlugins(3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.mutations.WithLabelValues("remove-invalid-samples", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mutations.WithLabelValues("remove-invalid-samples", StatusFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.plugins))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conflicts))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveClick("x")
	r.ObserveMutation("x", nil)
	r.ObserveTransform("x", time.Second, nil)
	r.SetPlugins(1, 0)
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveClick("download-urls")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dsxform_transform_button_clicks_total{button="download-urls"} 1`)
}
