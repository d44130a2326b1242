// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — запись не найдена или принадлежит другому пользователю.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — пользователь с таким именем уже существует.
	ErrConflict = errors.New("конфликт: ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
)
