package models

import "errors"

// Пагинация списков по умолчанию
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var (
	// ErrInvalidPaymentStatus возвращается при некорректном платёжном статусе в фильтре
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)
