package forms

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

// GroupChecker проверяет, что группа существует
type GroupChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// PostForm - форма создания и редактирования поста
type PostForm struct {
	Text   string                `form:"text" json:"text" binding:"required"`
	Group  string                `form:"group" json:"group" binding:"omitempty,numeric"`
	Image  *multipart.FileHeader `form:"image" json:"-"`
	Errors Errors                `form:"-" json:"errors,omitempty"`
}

// BindPostForm читает форму из запроса (urlencoded, multipart или JSON)
func BindPostForm(c *gin.Context) *PostForm {
	form := &PostForm{}
	if err := c.ShouldBind(form); err != nil {
		form.Errors = bindErrors(err)
	}
	return form
}

// Validate проверяет форму и собирает PostInput. Ошибки полей возвращаются как Errors.
func (f *PostForm) Validate(ctx context.Context, groups GroupChecker) (services.PostInput, error) {
	errs := f.Errors
	if errs == nil {
		errs = Errors{}
	}
	input := services.PostInput{}

	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" && !errs.Has("text") {
		errs.Add("text", msgRequired)
	}
	input.Text = f.Text

	if group := strings.TrimSpace(f.Group); group != "" && !errs.Has("group") {
		id, err := strconv.ParseInt(group, 10, 64)
		if err != nil || id <= 0 {
			errs.Add("group", msgInvalidGroup)
		} else {
			exists, err := groups.Exists(ctx, id)
			if err != nil {
				return input, err
			}
			if !exists {
				errs.Add("group", msgInvalidGroup)
			} else {
				input.GroupID = &id
			}
		}
	}

	if f.Image != nil {
		upload, err := readImage(f.Image)
		if err != nil {
			errs.Add("image", msgInvalidImage)
		} else {
			input.Image = upload
		}
	}

	f.Errors = errs
	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}

func readImage(header *multipart.FileHeader) (*services.ImageUpload, error) {
	if header.Size > services.MaxImageSize {
		return nil, services.ErrInvalidImage
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > services.MaxImageSize {
		return nil, errors.New("image is too large")
	}
	return services.NewImageUpload(header.Filename, data)
}
