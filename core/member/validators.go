package member

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adrodovia/portal/core"
)

var (
	roleTag  = "perfil"
	roleText = "{0} must be one of PASTOR, SECRETARIA, ADMIN, MEMBRO or CONGREGADO"
)

// RegisterValidators registers the member validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation checks that the field is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}
