package api

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Obed704/church-portal/internal/reminder"
)

var (
	translator ut.Translator
	setupOnce  sync.Once

	notBlankTag = "notblank"
	cronTag     = "cron"
)

// SetupValidation hooks English messages and custom tags into gin's validator.
func SetupValidation() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		// Use JSON tag names for errors instead of Go struct names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(notBlankTag, notBlankValidation)
		_ = v.RegisterValidation(cronTag, cronValidation)

		registerFn := func(ut.Translator) error { return nil }
		for _, tag := range []string{notBlankTag, cronTag} {
			_ = v.RegisterTranslation(tag, translator, registerFn, translateCustomValidationErrs)
		}
	})
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case cronTag:
		return "must be a 5-field cron expression or empty"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// cronValidation accepts an empty string, which clears a schedule.
func cronValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	return ok && (str == "" || reminder.ValidateCron(str) == nil)
}

// ValidationError converts a binding error into a 400 with per-field messages.
func ValidationError(err error) *APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if translator != nil {
				fields[fe.Field()] = fe.Translate(translator)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return &APIError{Code: http.StatusBadRequest, Message: "validation failed", Fields: fields}
	}
	if errors.Is(err, io.EOF) {
		return BadRequest("request body is required")
	}
	return BadRequest(err.Error())
}

// BindJSON decodes and validates the request body.
func BindJSON(ctx *gin.Context, dst any) *APIError {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		return ValidationError(err)
	}
	return nil
}

// Bind picks the decoder from the Content-Type, so multipart forms work too.
func Bind(ctx *gin.Context, dst any) *APIError {
	if err := ctx.ShouldBind(dst); err != nil {
		return ValidationError(err)
	}
	return nil
}
