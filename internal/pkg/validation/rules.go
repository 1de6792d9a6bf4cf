package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/edurecords/internal/app/models"
)

// Validation rule patterns
var (
	// ClockTimePattern matches 24h "HH:MM" schedule times
	ClockTimePattern = `^([01]\d|2[0-3]):[0-5]\d$`

	// DateLayouts accepted for date fields, tried in order
	DateLayouts = []string{time.RFC3339, "2006-01-02"}
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	ClockTime *regexp.Regexp
}{
	ClockTime: regexp.MustCompile(ClockTimePattern),
}

// custom validation tags
const (
	notBlankTag  = "notblank"
	isoDateTag   = "isodate"
	weekdayTag   = "weekday"
	clockTimeTag = "clocktime"
)

var customMessages = map[string]string{
	notBlankTag:  "%s is required",
	isoDateTag:   "%s must be a valid ISO 8601 date",
	weekdayTag:   "%s must be a day of the week",
	clockTimeTag: "%s must be a time formatted as HH:MM",
}

// ParseDate parses an ISO 8601 date or date-time
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func weekday(fl validator.FieldLevel) bool {
	return slices.Contains(models.Weekdays, fl.Field().String())
}

func clockTime(fl validator.FieldLevel) bool {
	return CompiledPatterns.ClockTime.MatchString(fl.Field().String())
}
