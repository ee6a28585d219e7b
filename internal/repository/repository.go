// Package repository содержит реализации хранилища сессий оформления заказа.
package repository

import "errors"

var (
	// ErrSessionNotFound возвращается, если сессия с указанным идентификатором отсутствует.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrSessionExists возвращается при попытке повторно сохранить сессию с тем же идентификатором.
	ErrSessionExists = errors.New("checkout session already exists")
)
