package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	siteIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// validatorInstance returns the shared validator used for site definitions.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("site_id", func(fl validator.FieldLevel) bool {
			return siteIDPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

func (c *Config) validateSites() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("sites: at least one site is required")
	}

	for _, m := range c.Shopify.Metafields {
		if err := validatorInstance().Struct(m); err != nil {
			return fmt.Errorf("shopify.metafields: %s", describeValidation(err))
		}
	}

	ids := make(map[string]bool, len(c.Sites))
	domains := make(map[string]string)
	for i, s := range c.Sites {
		at := fmt.Sprintf("sites[%d]", i)
		if err := validatorInstance().Struct(s); err != nil {
			return fmt.Errorf("%s: %s", at, describeValidation(err))
		}
		if ids[s.ID] {
			return fmt.Errorf("%s: duplicate site id %q", at, s.ID)
		}
		ids[s.ID] = true

		if !slices.Contains(s.Locales, s.DefaultLocale) {
			return fmt.Errorf("%s: default_locale %q is not in locales", at, s.DefaultLocale)
		}
		for _, l := range s.Locales {
			if _, err := language.Parse(l); err != nil {
				return fmt.Errorf("%s: locale %q: %w", at, l, err)
			}
		}

		for _, d := range s.Domains {
			d = strings.ToLower(d)
			if other, ok := domains[d]; ok {
				return fmt.Errorf("%s: domain %q already used by site %q", at, d, other)
			}
			domains[d] = s.ID
		}

		if (s.Shopify.Store == "") != (s.Shopify.StorefrontToken == "") {
			return fmt.Errorf("%s: shopify.store and shopify.storefront_token must be set together", at)
		}
	}
	return nil
}

// describeValidation turns validator errors into "field: rule" messages
// using the config key names.
func describeValidation(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fieldKey(fe), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func fieldKey(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '[' && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
