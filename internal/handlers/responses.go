package handlers

import (
	"errors"
	"net/http"

	"ckd-service/internal/services"
)

// ErrorResponse стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"Patient not found"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse стандартный успешный ответ
type SuccessResponse struct {
	Message string      `json:"message" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// statusFromError маппинг сигнальных ошибок сервисов в HTTP статусы
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInactive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
