package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ginternational/backoffice/internal/models"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators installs the custom binding rules on gin's validator.
func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}

		validatorsErr = v.RegisterValidation("targetmodel", func(fl validator.FieldLevel) bool {
			_, err := models.ParseTargetModel(fl.Field().String())
			return err == nil
		})
	})

	return validatorsErr
}

// mustRegisterValidators panics if the custom rules cannot be installed;
// binding a tagged struct without them would panic later anyway.
func mustRegisterValidators() {
	if err := registerValidators(); err != nil {
		panic(err)
	}
}
