package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/snaplink-io/snaplink/internal/errors"
	"github.com/snaplink-io/snaplink/internal/logger"
	"github.com/snaplink-io/snaplink/internal/metrics"
	"github.com/snaplink-io/snaplink/internal/model"
	"github.com/snaplink-io/snaplink/internal/store"
)

// LinkService - операции ядра, которые публикует HTTP-слой.
type LinkService interface {
	Shorten(ctx context.Context, req *model.ShortenRequest) (*model.ShortenResponse, error)
	Resolve(ctx context.Context, code string) (string, error)
	Stats(ctx context.Context, code string) (*model.StatsResponse, error)
}

type LinkHandler struct {
	service LinkService
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewLinkHandler(service LinkService, m *metrics.Metrics, log *logger.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		metrics: m,
		log:     log,
	}
}

func (h *LinkHandler) Shorten(c *gin.Context) {
	var req model.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ShortenTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON body or missing required field: url",
		})
		return
	}

	response, err := h.service.Shorten(c.Request.Context(), &req)
	if err != nil {
		h.metrics.ShortenTotal.WithLabelValues(errOutcome(err)).Inc()
		h.handleError(c, err)
		return
	}

	h.metrics.ShortenTotal.WithLabelValues("created").Inc()
	c.JSON(http.StatusCreated, response)
}

func (h *LinkHandler) Resolve(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Missing code parameter",
		})
		return
	}

	originalURL, err := h.service.Resolve(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLinkNotFound):
			h.metrics.ResolveTotal.WithLabelValues("not_found").Inc()
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage))
		case errors.Is(err, apperrors.ErrLinkExpired):
			h.metrics.ResolveTotal.WithLabelValues("gone").Inc()
			c.Data(http.StatusGone, "text/html; charset=utf-8", []byte(gonePage))
		default:
			h.metrics.ResolveTotal.WithLabelValues("error").Inc()
			h.handleError(c, err)
		}
		return
	}

	h.metrics.ResolveTotal.WithLabelValues("redirect").Inc()
	c.Redirect(http.StatusFound, originalURL)
}

func (h *LinkHandler) Stats(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Missing required query parameter: code",
		})
		return
	}

	response, err := h.service.Stats(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Short URL not found",
			})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// handleError переводит ошибки ядра в HTTP-статусы
func (h *LinkHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsValidationError(err) {
		validationErr := apperrors.GetValidationError(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}

	if errors.Is(err, apperrors.ErrAliasTaken) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "alias_taken",
			"message": "This alias is already taken",
		})
		return
	}

	if errors.Is(err, apperrors.ErrLinkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Short URL not found",
		})
		return
	}

	// Проблемы конфигурации и связи с хранилищем отличаем от багов
	if errors.Is(err, apperrors.ErrStoreUnavailable) || store.IsStoreError(err) {
		h.log.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "store_unavailable",
			"message": "Storage backend is unavailable",
		})
		return
	}

	if apperrors.IsBusinessError(err) {
		businessErr := apperrors.GetBusinessError(err)
		h.log.Error("business error", zap.String("code", businessErr.Code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "business_error",
			"message": businessErr.Message,
			"code":    businessErr.Code,
		})
		return
	}

	h.log.Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An unexpected error occurred",
	})
}

func errOutcome(err error) string {
	switch {
	case apperrors.IsValidationError(err):
		return "invalid"
	case errors.Is(err, apperrors.ErrAliasTaken):
		return "alias_taken"
	case errors.Is(err, apperrors.ErrStoreUnavailable) || store.IsStoreError(err):
		return "store_error"
	case apperrors.IsBusinessError(err):
		return "exhausted"
	default:
		return "error"
	}
}
