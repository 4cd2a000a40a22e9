package forms

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SignupForm - регистрация в каталоге пользователей
type SignupForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Password  string `form:"password" json:"password" binding:"required,min=8"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Errors    Errors `form:"-" json:"errors,omitempty"`
}

func BindSignupForm(c *gin.Context) *SignupForm {
	form := &SignupForm{}
	if err := c.ShouldBind(form); err != nil {
		form.Errors = bindErrors(err)
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" && !form.Errors.Has("username") {
		if form.Errors == nil {
			form.Errors = Errors{}
		}
		form.Errors.Add("username", msgRequired)
	}
	return form
}

// LoginForm - вход по имени и паролю
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next,omitempty"`
	Errors   Errors `form:"-" json:"errors,omitempty"`
}

func BindLoginForm(c *gin.Context) *LoginForm {
	form := &LoginForm{}
	if err := c.ShouldBind(form); err != nil {
		form.Errors = bindErrors(err)
	}
	return form
}
