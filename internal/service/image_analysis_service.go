package service

import (
	"context"
	"time"

	"go-image-describer/internal/completion"
	apperrors "go-image-describer/internal/errors"
	"go-image-describer/internal/logger"
	"go-image-describer/internal/observer"
	"go-image-describer/internal/parser"
	"go-image-describer/internal/prompt"
	"go-image-describer/pkg/models"
)

// ImageAnalysisService describes uploaded images through a chat model.
type ImageAnalysisService interface {
	// Analyze returns the description of upload. A nil upload yields a
	// validation error without contacting the model.
	Analyze(ctx context.Context, upload *models.Upload) (*models.ImageAnalysis, error)
}

type imageAnalysisService struct {
	completer completion.Completer
	events    observer.Subject
}

// NewImageAnalysisService creates a new image analysis service
func NewImageAnalysisService(completer completion.Completer, events observer.Subject) ImageAnalysisService {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &imageAnalysisService{
		completer: completer,
		events:    events,
	}
}

func (s *imageAnalysisService) Analyze(ctx context.Context, upload *models.Upload) (*models.ImageAnalysis, error) {
	requestID := logger.RequestID(ctx)

	if upload == nil {
		s.events.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType: observer.UploadRejected,
			RequestID: requestID,
		})
		return nil, apperrors.NewMissingImageError(nil)
	}

	start := time.Now()
	event := observer.AnalysisEvent{
		RequestID:   requestID,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		ImageBytes:  upload.Size(),
	}

	event.EventType = observer.AnalysisStarted
	s.events.NotifyObservers(ctx, event)

	reply, err := s.completer.Complete(ctx, prompt.Build(upload.Data))
	if err != nil {
		event.EventType = observer.AnalysisFailed
		event.ProcessingTime = time.Since(start)
		event.ErrorMessage = err.Error()
		s.events.NotifyObservers(ctx, event)
		return nil, apperrors.NewUpstreamError(err)
	}

	result := parser.Parse(reply, upload.ContentType)

	event.EventType = observer.AnalysisCompleted
	event.ProcessingTime = time.Since(start)
	event.Success = true
	event.Metadata = map[string]interface{}{
		"keyword_count": len(result.Keywords),
		"format":        result.Format,
	}
	s.events.NotifyObservers(ctx, event)

	return &result, nil
}
