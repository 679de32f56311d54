package transport

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go-image-describer/internal/config"
	apperrors "go-image-describer/internal/errors"
	"go-image-describer/internal/logger"
	"go-image-describer/internal/metrics"
	"go-image-describer/internal/service"
	"go-image-describer/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	AnalyzeRoute = "/api/analyze-image"
	HealthRoute  = "/health"
	MetricsRoute = "/metrics"

	RequestIDHeader = "X-Request-ID"

	version = "1.0.0"
)

// NewHandler builds the router. m may be nil, in which case no metrics are
// collected or exposed.
func NewHandler(svc service.ImageAnalysisService, cfg *config.Config, m *metrics.Metrics) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
	)
	if m != nil && cfg.MetricsEnabled {
		r.Use(instrument(m))
		r.GET(MetricsRoute, gin.WrapH(m.Handler()))
	}
	if cfg.MaxRequestBodySize > 0 {
		r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))
	}
	r.Use(errorHandler())

	r.GET(HealthRoute, healthCheck)
	r.POST(AnalyzeRoute, analyzeImage(svc, cfg.UploadField))

	return r
}

func analyzeImage(svc service.ImageAnalysisService, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The upstream call runs to completion even if the client goes away.
		ctx := context.WithoutCancel(c.Request.Context())

		var upload *models.Upload
		fh, err := c.FormFile(field)
		if err != nil {
			logger.FromContext(ctx).WithError(err).WithField("field", field).Debug("Request carries no image file")
		} else {
			upload, err = readUpload(fh)
			if err != nil {
				_ = c.Error(apperrors.NewInternalError(err))
				return
			}
		}

		result, err := svc.Analyze(ctx, upload)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func readUpload(fh *multipart.FileHeader) (*models.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	return &models.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "available",
		Version: version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request completed with server error")
			return
		}
		entry.Info("Request completed")
	}
}

func instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

// respondError logs err in full and sends only its public message.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)

	entry := logger.FromContext(c.Request.Context()).WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Error analyzing image")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error: apperrors.PublicMessage(err),
	})
}
