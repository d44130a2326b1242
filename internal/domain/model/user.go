// Пакет model — доменные модели textpolish.
package model

import "time"

// Роли пользователей для отображения в UI и seed-утилите.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// User — учётная запись пользователя. Хранится в таблице users.
type User struct {
	// ID — идентификатор пользователя (BIGSERIAL)
	ID int64
	// Username — уникальное имя для входа
	Username string
	// Email — адрес электронной почты (может быть пустым)
	Email string
	// PasswordHash — bcrypt-хеш пароля
	PasswordHash string
	// IsStaff — привилегированный пользователь
	IsStaff bool
	// IsSuperuser — суперпользователь
	IsSuperuser bool
	// CreatedAt — время создания учётной записи
	CreatedAt time.Time
}

// Role возвращает роль пользователя для UI.
func (u *User) Role() string {
	if u.IsStaff || u.IsSuperuser {
		return RoleStaff
	}
	return RoleUser
}
