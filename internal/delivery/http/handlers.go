package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	"github.com/ilindan-dev/webhook-notifier/internal/service"
	"github.com/rs/zerolog"
)

type Handlers struct {
	service *service.NotificationService
	logger  zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *service.NotificationService, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the notification API.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/notifications", h.EnqueueNotification)
		api.POST("/notifications/dispatch", h.DispatchNotification)
	}
}

// EnqueueNotification accepts a build event and hands it to the worker queue.
func (h *Handlers) EnqueueNotification(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	n, err := h.service.Enqueue(c.Request.Context(), toSubmitInput(req))
	if err != nil {
		h.writeError(c, err, "failed to enqueue notification")
		return
	}

	c.JSON(http.StatusAccepted, QueuedResponse{ID: n.ID, Status: "queued", CreatedAt: n.CreatedAt})
}

// DispatchNotification sends a build event synchronously and reports every endpoint result.
// Endpoint failures still produce 200; they are visible in the results.
func (h *Handlers) DispatchNotification(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := h.service.SendNow(c.Request.Context(), toSubmitInput(req))
	if err != nil {
		h.writeError(c, err, "failed to dispatch notification")
		return
	}

	c.JSON(http.StatusOK, toOutcomeResponse(outcome))
}

func (h *Handlers) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, repo.ErrInvalidNotification):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrQueueUnavailable):
		h.logger.Error().Err(err).Msg(msg)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msg})
	default:
		h.logger.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
	}
}

func toSubmitInput(req NotificationRequest) service.SubmitInput {
	return service.SubmitInput{
		Event:       req.Event,
		Subject:     req.Subject,
		Body:        req.Body,
		Recipients:  req.Recipients,
		WebhookURLs: req.WebhookURLs,
		Link:        req.Link,
		Initiator:   req.Initiator,
	}
}

// toOutcomeResponse is a helper function to map the domain outcome to the DTO.
func toOutcomeResponse(o *model.SendOutcome) OutcomeResponse {
	results := o.Results
	if results == nil {
		results = []model.DispatchResult{}
	}
	return OutcomeResponse{
		NotificationID: o.NotificationID,
		Skipped:        o.Skipped,
		Succeeded:      o.Succeeded(),
		Failed:         o.Failed(),
		Results:        results,
		Mirrors:        o.Mirrors,
	}
}
