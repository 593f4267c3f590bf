package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/mentorship-backend/internal/domain"
)

// RegisterValidators installs enum tags on gin's binding engine:
// access_status, role. Access kinds and decisions are checked by the services,
// which report unknown values as invalid_state.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return registerEnums(v)
}

func registerEnums(v *validator.Validate) error {
	enums := map[string]func(string) bool{
		"access_status": func(s string) bool { _, ok := types.ParseAccessStatus(s); return ok },
		"role":          func(s string) bool { _, ok := types.ParseRole(s); return ok },
	}
	for tag, check := range enums {
		check := check
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
