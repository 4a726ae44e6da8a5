package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("inputtype", func(fl validator.FieldLevel) bool {
			return InputType(fl.Field().String()).Valid()
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks a descriptor before it is registered.
func (c Component) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			fe := ves[0]
			return fmt.Errorf("%w: %s failed validation for tag '%s'", ErrInvalidComponent, fieldPath(fe), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidComponent, err)
	}
	if err := validateInputs(c.Inputs, "inputs"); err != nil {
		return fmt.Errorf("%w: component %s: %v", ErrInvalidComponent, c.Name, err)
	}
	if c.ChildRequirements != nil && !c.CanHaveChildren {
		return fmt.Errorf("%w: component %s declares child requirements but cannot have children", ErrInvalidComponent, c.Name)
	}
	return nil
}

func validateInputs(inputs []Input, path string) error {
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		at := fmt.Sprintf("%s[%d](%s)", path, i, in.Name)
		if seen[in.Name] {
			return fmt.Errorf("%s: duplicate input name", at)
		}
		seen[in.Name] = true

		if in.Min != nil && in.Max != nil && *in.Min > *in.Max {
			return fmt.Errorf("%s: min %v greater than max %v", at, *in.Min, *in.Max)
		}
		if (in.Min != nil || in.Max != nil || in.Step != nil) && in.Type != TypeNumber {
			return fmt.Errorf("%s: numeric bounds on %s input", at, in.Type)
		}
		if len(in.Enum) > 0 {
			if in.Type != TypeString {
				return fmt.Errorf("%s: enum on %s input", at, in.Type)
			}
			if def, ok := in.DefaultValue.(string); ok && !slices.Contains(in.Enum, def) {
				return fmt.Errorf("%s: default %q not in enum", at, def)
			}
		}
		if len(in.SubFields) > 0 {
			if in.Type != TypeList && in.Type != TypeObject {
				return fmt.Errorf("%s: subFields on %s input", at, in.Type)
			}
			if err := validateInputs(in.SubFields, at+".subFields"); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	for i, p := range parts {
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}
