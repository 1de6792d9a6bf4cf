package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(isoDateTag, isoDate)
	_ = validate.RegisterValidation(weekdayTag, weekday)
	_ = validate.RegisterValidation(clockTimeTag, clockTime)

	for tag := range customMessages {
		_ = validate.RegisterTranslation(tag, translator,
			func(ut.Translator) error { return nil },
			translateCustom,
		)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	if format, ok := customMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Field())
	}
	return fe.Field() + " is invalid"
}

// Struct validates a request struct and returns a ValidationFailed error listing every failed field,
// or nil when the struct is valid.
func Struct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Message: fe.Translate(translator),
		})
	}
	return apperrors.NewValidationError("Validation failed", fields...)
}

// fieldPath turns "CourseRequest.instructor.name" into "instructor.name"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
