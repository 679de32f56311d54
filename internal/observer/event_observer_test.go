package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-image-describer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []AnalysisEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event AnalysisEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                          { return "panicking" }

func TestEventPublisher_NotifyInOrder(t *testing.T) {
	p := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	p.Subscribe(first)
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisCompleted})

	for _, obs := range []*recordingObserver{first, second} {
		require.Len(t, obs.events, 2, obs.name)
		assert.Equal(t, AnalysisStarted, obs.events[0].EventType)
		assert.Equal(t, AnalysisCompleted, obs.events[1].EventType)
		assert.False(t, obs.events[0].Timestamp.IsZero(), "timestamp should be filled in")
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	p := NewEventPublisher()
	obs := &recordingObserver{name: "gone"}
	p.Subscribe(obs)
	p.Unsubscribe(obs)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})

	assert.Empty(t, obs.events)
}

func TestEventPublisher_PanicIsContained(t *testing.T) {
	p := NewEventPublisher()
	after := &recordingObserver{name: "after"}
	p.Subscribe(panickingObserver{})
	p.Subscribe(after)

	assert.NotPanics(t, func() {
		p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisFailed})
	})
	assert.Len(t, after.events, 1)
}

func TestMetricsObserver(t *testing.T) {
	m := metrics.New()
	obs := NewMetricsObserver(m)
	ctx := context.Background()

	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisStarted, ImageBytes: 2048})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisCompleted, ProcessingTime: time.Second})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisFailed, ProcessingTime: time.Second})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisFailed})
	obs.OnEvent(ctx, AnalysisEvent{EventType: UploadRejected})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(metrics.ResultCompleted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(metrics.ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(metrics.ResultRejected)))
}

func TestLoggingObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	NewLoggingObserver(l).OnEvent(context.Background(), AnalysisEvent{
		EventType:    AnalysisFailed,
		RequestID:    "req-1",
		Filename:     "cat.png",
		ContentType:  "image/png",
		ImageBytes:   10,
		ErrorMessage: "HTTP error! status: 429",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "cat.png", entry["filename"])
	assert.Equal(t, "HTTP error! status: 429", entry["error"])
}
