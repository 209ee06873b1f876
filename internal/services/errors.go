package services

import "errors"

// Сигнальные ошибки для маппинга HTTP статусов в обработчиках
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrInactive   = errors.New("inactive")
)
