package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/chamadasimples/chamada/core"
)

var (
	attStatusTag  = "attstatus"
	attStatusText = "must be one of PRESENT, ABSENT or JUSTIFIED"

	studentStatusTag  = "studentstatus"
	studentStatusText = "must be one of ATIVO, TRANSFERIDO or INDEFINIDO"

	periodTag  = "period"
	periodText = "must be a year (YYYY) or a month (YYYY-MM)"

	monthTag  = "month"
	monthText = "must be a month (YYYY-MM)"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(attStatusTag, attStatusText)

	_ = core.Validate.RegisterValidation(studentStatusTag, studentStatusValidation)
	core.RegisterCustomTranslation(studentStatusTag, studentStatusText)

	_ = core.Validate.RegisterValidation(periodTag, periodValidation)
	core.RegisterCustomTranslation(periodTag, periodText)

	_ = core.Validate.RegisterValidation(monthTag, monthValidation)
	core.RegisterCustomTranslation(monthTag, monthText)
}

func attStatusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func studentStatusValidation(fl validator.FieldLevel) bool {
	return StudentStatus(fl.Field().String()).Valid()
}

func periodValidation(fl validator.FieldLevel) bool {
	return periodRegex.MatchString(fl.Field().String())
}

func monthValidation(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}
