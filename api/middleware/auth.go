package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"yatube/logs"
	"yatube/models"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// sessionToken - токен из cookie сессии или из Authorization: Bearer
func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionAuth - опциональная аутентификация: при валидном токене
// кладет в контекст user_id и user, иначе запрос идет дальше анонимным
func SessionAuth(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		user, err := userService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) {
				logs.Error("Failed to authenticate", map[string]interface{}{"path": c.Request.URL.Path, "error": err})
			}
			c.Next()
			return
		}
		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// LoginRequired перенаправляет анонима на страницу входа с next=<исходный URI>
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func LoginRedirectURL(loginURL, next string) string {
	return loginURL + "?next=" + url.QueryEscape(next)
}

// CurrentUser - пользователь, установленный SessionAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
