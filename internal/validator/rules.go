package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/izzat2702/KognitDeck/internal/models"
)

// registerCustomRules wires the domain enum rules. Registration only fails
// for empty tag names, so errors here are programmer mistakes and panic at
// startup.
func registerCustomRules(v *validator.Validate) {
	mustRegister(v, "cardformat", func(fl validator.FieldLevel) bool {
		return models.CardFormat(fl.Field().String()).Valid()
	})
	mustRegister(v, "inputmethod", func(fl validator.FieldLevel) bool {
		return models.InputMethod(fl.Field().String()).Valid()
	})
	mustRegister(v, "plantier", func(fl validator.FieldLevel) bool {
		return models.PlanTier(fl.Field().String()).Valid()
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation rule " + tag + ": " + err.Error())
	}
}
