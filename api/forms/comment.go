package forms

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CommentForm - форма комментария; пост и автор берутся из URL и сессии
type CommentForm struct {
	Text   string `form:"text" json:"text" binding:"required"`
	Errors Errors `form:"-" json:"errors,omitempty"`
}

func BindCommentForm(c *gin.Context) *CommentForm {
	form := &CommentForm{}
	if err := c.ShouldBind(form); err != nil {
		form.Errors = bindErrors(err)
	}
	return form
}

func (f *CommentForm) Validate() error {
	errs := f.Errors
	if errs == nil {
		errs = Errors{}
	}
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" && !errs.Has("text") {
		errs.Add("text", msgRequired)
	}
	f.Errors = errs
	if len(errs) > 0 {
		return errs
	}
	return nil
}
