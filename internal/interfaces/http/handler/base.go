package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/interfaces/http/dto"
	"github.com/mobileshop/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationFailed sends a 400 response carrying the collected field errors
func (h *BaseHandler) ValidationFailed(c *gin.Context, verrs shared.ValidationErrors) {
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, ve := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   ve.Field,
			Code:    ve.Code,
			Message: ve.Message,
		})
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed", middleware.GetRequestID(c), details))
}

// HandleError maps the error taxonomy onto HTTP responses. Upstream failures
// surface as gateway errors with the user-displayable Vietnamese message;
// domain errors use the per-code status map.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var verrs shared.ValidationErrors
	if errors.As(err, &verrs) {
		h.ValidationFailed(c, verrs)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetDomainHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	var timeoutErr *shared.TimeoutError
	if errors.As(err, &timeoutErr) {
		c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUpstreamTimeout, shared.UserMessage(err), requestID))
		return
	}

	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUpstream, shared.UserMessage(err), requestID))
		return
	}

	var networkErr *shared.NetworkError
	if errors.As(err, &networkErr) {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUpstreamUnreachable, shared.UserMessage(err), requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
