package container

import (
	"net/http"

	"go-image-describer/internal/completion"
	"go-image-describer/internal/config"
	"go-image-describer/internal/logger"
	"go-image-describer/internal/metrics"
	"go-image-describer/internal/observer"
	"go-image-describer/internal/service"
	"go-image-describer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config               *config.Config
	metrics              *metrics.Metrics
	events               *observer.EventPublisher
	completer            completion.Completer
	imageAnalysisService service.ImageAnalysisService
	handler              http.Handler
}

// NewContainer builds the dependency graph from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	completer := completion.NewOpenAIClient(completion.Options{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
		HTTPClient:  completion.NewHTTPClient(),
	})
	return newContainer(cfg, completer), nil
}

func newContainer(cfg *config.Config, completer completion.Completer) *Container {
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		events.Subscribe(observer.NewMetricsObserver(m))
	}

	imageAnalysisService := service.NewImageAnalysisService(completer, events)
	handler := transport.NewHandler(imageAnalysisService, cfg, m)

	return &Container{
		config:               cfg,
		metrics:              m,
		events:               events,
		completer:            completer,
		imageAnalysisService: imageAnalysisService,
		handler:              handler,
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Service returns the analysis service, used directly by the CLI.
func (c *Container) Service() service.ImageAnalysisService {
	return c.imageAnalysisService
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
