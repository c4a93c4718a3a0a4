package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/valentine-rsvp/internal/responses"
	"github.com/imrishuroy/valentine-rsvp/internal/validation"
)

// MessagePublisher sends a notification body with string attributes.
type MessagePublisher interface {
	SendResponseMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

// HandlerConfig groups dependencies for the responses handler.
type HandlerConfig struct {
	Service   *responses.Service
	Publisher MessagePublisher // optional
	AuthToken string
	BasePath  string
	Logger    *slog.Logger
}

// RegisterResponseRoutes registers the response API under cfg.BasePath.
func RegisterResponseRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := r.Group(cfg.BasePath, BearerAuth(cfg.AuthToken))

	g.POST("/response", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.SubmitResponseRequest
		if err := BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		key, err := cfg.Service.Submit(ctx, req.Answer, req.Message, req.Timestamp)
		if errors.Is(err, responses.ErrValidation) {
			var ve *responses.ValidationError
			errors.As(err, &ve)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "fields": ve.Fields})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit response", "details": err.Error()})
			return
		}

		if cfg.Publisher != nil {
			publish(ctx, cfg.Publisher, logger, responses.SubmittedEvent{
				Key:       key,
				Answer:    req.Answer,
				Timestamp: req.Timestamp,
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "key": key})
	})

	g.GET("/responses", func(c *gin.Context) {
		all, err := cfg.Service.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch responses", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, all)
	})

	g.GET("/responses/stats", func(c *gin.Context) {
		st, err := cfg.Service.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	})

	g.GET("/response/:key", func(c *gin.Context) {
		resp, err := cfg.Service.Get(c.Request.Context(), c.Param("key"))
		switch {
		case errors.Is(err, responses.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "key is not a response key"})
		case errors.Is(err, responses.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch response", "details": err.Error()})
		default:
			c.JSON(http.StatusOK, resp)
		}
	})
}

// publish is best-effort: the response is already stored, so a failure is logged
// and does not change the HTTP result.
func publish(ctx context.Context, p MessagePublisher, logger *slog.Logger, ev responses.SubmittedEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal submitted event", "key", ev.Key, "error", err)
		return
	}
	attrs := map[string]string{
		"answer": ev.Answer,
		"key":    ev.Key,
	}
	if err := p.SendResponseMessage(ctx, string(body), attrs); err != nil {
		logger.Error("failed to publish submitted event", "key", ev.Key, "error", err)
	}
}
