package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"tandem/internal/recommend/models"
	dErrors "tandem/pkg/domain-errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the slotlabel tag and the
// settings struct rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("slotlabel", func(fl validator.FieldLevel) bool {
			return models.SlotLabel(fl.Field().String()).IsWellFormed()
		})
		validate.RegisterStructValidation(retentionCoversRepeatWindow, models.Settings{})
	})
	return validate
}

// retention must not delete rows the repeat-avoidance query still needs.
func retentionCoversRepeatWindow(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.Settings)
	if s.RetentionDays > 0 && s.RetentionDays < s.RepeatAvoidDays {
		sl.ReportError(s.RetentionDays, "retention_days", "RetentionDays", "gtefield", "repeat_avoid_days")
	}
}

// Validate checks a full settings value. The returned error carries
// CodeValidation and names every failing field.
func Validate(s *models.Settings) error {
	if s == nil {
		return dErrors.New(dErrors.CodeValidation, "settings are required")
	}
	if err := Validator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return dErrors.New(dErrors.CodeValidation, describe(verrs))
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid settings")
	}
	if err := s.AgePreference.Validate(); err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Settings.")
		switch fe.Tag() {
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "required", "min":
			parts = append(parts, field+" must not be empty")
		case "slotlabel":
			parts = append(parts, fmt.Sprintf("%s must match HH:mm, got %v", field, fe.Value()))
		case "unique":
			parts = append(parts, field+" must not contain duplicates")
		case "timezone":
			parts = append(parts, fmt.Sprintf("%s is not a known timezone: %v", field, fe.Value()))
		case "gtfield", "gtefield":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}
