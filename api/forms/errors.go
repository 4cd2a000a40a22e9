package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors - ключ ошибок, не относящихся к конкретному полю
const NonFieldErrors = "__all__"

const (
	msgRequired     = "Обязательное поле."
	msgInvalidGroup = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."
	msgInvalidImage = "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением."
	msgTooLong      = "Убедитесь, что это значение содержит не более %s символов."
	msgTooShort     = "Убедитесь, что это значение содержит не менее %s символов."
	msgInvalidData  = "Некорректные данные формы."
)

// Ошибки validator называют поля по тегу form
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Errors - ошибки формы по полям
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// AsErrors достает Errors из ошибки валидации
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// bindErrors переводит ошибки gin binding (validator) в ошибки полей
func bindErrors(err error) Errors {
	errs := Errors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, msgInvalidData)
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errs.Add(field, msgRequired)
		case "numeric":
			errs.Add(field, msgInvalidGroup)
		case "max":
			errs.Add(field, fmt.Sprintf(msgTooLong, fe.Param()))
		case "min":
			errs.Add(field, fmt.Sprintf(msgTooShort, fe.Param()))
		default:
			errs.Add(field, msgInvalidData)
		}
	}
	return errs
}
