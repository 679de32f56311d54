package observer

import (
	"context"
	"sync"
	"time"

	"go-image-describer/internal/metrics"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent represents an analysis event
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id,omitempty"`
	Filename       string                 `json:"filename,omitempty"`
	ContentType    string                 `json:"content_type,omitempty"`
	ImageBytes     int                    `json:"image_bytes"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// AnalysisStarted when an upload has been accepted
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when the reply was parsed
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when the completion call or its reply failed
	AnalysisFailed EventType = "analysis_failed"
	// UploadRejected when a request carried no image
	UploadRejected EventType = "upload_rejected"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"filename":           event.Filename,
		"content_type":       event.ContentType,
		"image_bytes":        event.ImageBytes,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Debug("Image analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Image analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Image analysis failed")
	case UploadRejected:
		o.logger.WithFields(fields).Warn("Upload rejected")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver feeds analysis events into Prometheus collectors
type MetricsObserver struct {
	metrics *metrics.Metrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver(m *metrics.Metrics) Observer {
	return &MetricsObserver{metrics: m}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	switch event.EventType {
	case AnalysisStarted:
		o.metrics.UploadBytes.Observe(float64(event.ImageBytes))
	case AnalysisCompleted:
		o.metrics.AnalysesTotal.WithLabelValues(metrics.ResultCompleted).Inc()
		o.metrics.AnalysisDuration.Observe(event.ProcessingTime.Seconds())
	case AnalysisFailed:
		o.metrics.AnalysesTotal.WithLabelValues(metrics.ResultFailed).Inc()
		o.metrics.AnalysisDuration.Observe(event.ProcessingTime.Seconds())
	case UploadRejected:
		o.metrics.AnalysesTotal.WithLabelValues(metrics.ResultRejected).Inc()
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order.
// A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event AnalysisEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
