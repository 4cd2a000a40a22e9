package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"yatube/db"
	"yatube/logs"
	"yatube/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

// RegisterInput - данные регистрации в каталоге пользователей
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UserService - каталог пользователей: учетные записи и токены сессий
type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func checkPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}

// Register создает пользователя с захешированным паролем
func (us *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, errors.New("username and password are required")
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  passwordHash,
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var alreadyExists int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&alreadyExists).Error; err != nil {
			return err
		}
		if alreadyExists > 0 {
			return ErrUserExists
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logs.Info("User registered", map[string]interface{}{"userID": user.ID, "username": user.Username})
	return user, nil
}

// Login проверяет пароль и выдает новый токен сессии
func (us *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	var user models.User
	err := db.GetWriteDB(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !checkPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := us.IssueToken(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// IssueToken создает токен сессии для пользователя
func (us *UserService) IssueToken(ctx context.Context, userID int64) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	err := db.GetWriteDB(ctx).Omit("User").Create(&models.UserTokens{UserID: userID, Token: token}).Error
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Logout удаляет все токены пользователя
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
}

// Authenticate возвращает владельца токена
func (us *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	var stored models.UserTokens
	err := db.GetReadOnlyDB(ctx).Preload("User").Where("token = ?", token).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored.User == nil {
		return nil, ErrInvalidToken
	}
	return stored.User, nil
}

func (us *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// DeleteUser удаляет пользователя: посты остаются без автора,
// комментарии, подписки и токены удаляются
func (us *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return db.DeleteWithPolicies(tx, "users", []int64{userID})
	})
}
