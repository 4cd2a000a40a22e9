package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"yatube/api/forms"
	"yatube/api/middleware"
	"yatube/config"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 14 * 24 * 60 * 60

const (
	msgInvalidLogin = "Пожалуйста, введите правильные имя пользователя и пароль."
	msgUserExists   = "Пользователь с таким именем уже существует."
)

func authSettings() (loginURL, cookieName string) {
	conf := config.AppConfig
	if conf == nil {
		conf = config.Defaults()
	}
	return conf.Auth.LoginURL, conf.Auth.CookieName
}

func setSession(c *gin.Context, token string) {
	_, cookieName := authSettings()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, sessionMaxAge, "/", "", false, true)
}

// safeNext - локальный путь для возврата после входа
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}

// Signup - регистрация; после успеха пользователь сразу вошел
func Signup(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusOK, gin.H{"template": "users/signup.html", "title": "Регистрация", "form": &forms.SignupForm{}})
		return
	}

	ctx := c.Request.Context()
	form := forms.BindSignupForm(c)
	if len(form.Errors) == 0 {
		start := time.Now()
		user, err := userService.Register(ctx, services.RegisterInput{
			Username:  form.Username,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		})
		middleware.RecordWriteOperation("signup", time.Since(start), err)
		switch {
		case errors.Is(err, services.ErrUserExists):
			form.Errors = forms.Errors{}
			form.Errors.Add("username", msgUserExists)
		case err != nil:
			failed(c, err)
			return
		default:
			token, err := userService.IssueToken(ctx, user.ID)
			if err != nil {
				failed(c, err)
				return
			}
			setSession(c, token)
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	form.Password = ""
	c.JSON(http.StatusBadRequest, gin.H{"template": "users/signup.html", "title": "Регистрация", "form": form})
}

// Login - вход по имени и паролю, токен сессии уходит в cookie
func Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		form := &forms.LoginForm{Next: c.Query("next")}
		c.JSON(http.StatusOK, gin.H{"template": "users/login.html", "title": "Войти", "form": form})
		return
	}

	form := forms.BindLoginForm(c)
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	if len(form.Errors) == 0 {
		token, _, err := userService.Login(c.Request.Context(), form.Username, form.Password)
		if err == nil {
			setSession(c, token)
			c.Redirect(http.StatusFound, safeNext(form.Next))
			return
		}
		if !errors.Is(err, services.ErrInvalidCredentials) {
			failed(c, err)
			return
		}
		form.Errors = forms.Errors{}
		form.Errors.Add(forms.NonFieldErrors, msgInvalidLogin)
	}

	form.Password = ""
	c.JSON(http.StatusBadRequest, gin.H{"template": "users/login.html", "title": "Войти", "form": form})
}

// Logout отзывает токены пользователя и стирает cookie
func Logout(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		if err := userService.Logout(c.Request.Context(), user.ID); err != nil {
			failed(c, err)
			return
		}
	}
	_, cookieName := authSettings()
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"template": "users/logged_out.html", "title": "Вы вышли"})
}
