package services

import (
	"errors"

	"gorm.io/gorm"
)

type serviceError string

func (e serviceError) Error() string {
	return string(e)
}

const (
	// ErrNotFound - группа, пользователь или пост не найдены
	ErrNotFound serviceError = "services: resource not found"
	// ErrSelfFollow - попытка подписаться на самого себя
	ErrSelfFollow serviceError = "services: cannot follow yourself"
	// ErrNotAuthor - редактировать пост может только его автор
	ErrNotAuthor serviceError = "services: only the author can edit the post"
	// ErrUserExists - имя пользователя занято
	ErrUserExists serviceError = "services: user already exists"
	// ErrInvalidCredentials - неверная пара логин/пароль
	ErrInvalidCredentials serviceError = "services: invalid credentials"
	// ErrInvalidToken - токен сессии не найден
	ErrInvalidToken serviceError = "services: invalid token"
)

// notFound превращает gorm.ErrRecordNotFound в ErrNotFound, остальное пропускает как есть
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
