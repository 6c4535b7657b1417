package schema

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

var (
	validatorOnce sync.Once
	instance      *validator.Validate
)

// Validate returns the package-wide validator instance, registering the
// mac_address rule once, the same lazy-singleton shape as
// global.Validator().
func Validate() *validator.Validate {
	validatorOnce.Do(func() {
		instance = validator.New()
		instance.RegisterValidation("mac_address", validateMAC)
	})
	return instance
}

func validateMAC(fl validator.FieldLevel) bool {
	return macPattern.MatchString(fl.Field().String())
}

// NormalizeMAC lowercases a MAC address for storage, per the invariant
// that MAC addresses are stored lowercased.
func NormalizeMAC(mac string) string {
	return strings.ToLower(mac)
}
