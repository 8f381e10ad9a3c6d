package validation

import (
	"fmt"
	"math"
	"strings"

	"battlemap-sync-server/internal/domain"
)

// SizeClasses is the conventional 5e size vocabulary.
var SizeClasses = []string{"tiny", "small", "medium", "large", "huge", "gargantuan"}

func IsSizeClass(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, s := range SizeClasses {
		if s == v {
			return true
		}
	}
	return false
}

// DomainRuleValidator checks values against 5e conventions. The checks are
// advisory: when a rule's EnforceOfficial flag is false the validator stays
// silent so homebrew content passes untouched. In-range values never
// produce output. Strict mode turns violations into errors; lenient mode
// keeps them warnings.
type DomainRuleValidator struct {
	strict bool
}

func NewDomainRuleValidator(strict bool) *DomainRuleValidator {
	return &DomainRuleValidator{strict: strict}
}

// Validate returns the errors and warnings a value earns under rule. Empty
// values are left to the required rule.
func (v *DomainRuleValidator) Validate(rule *domain.DomainRule, value any, field *domain.PropertyField) (errs, warns []string) {
	if rule == nil || !rule.EnforceOfficial || isEmpty(value) {
		return nil, nil
	}

	violation := v.checkConvention(rule.Category, value, field)
	if violation == "" {
		return nil, nil
	}

	if v.strict {
		return []string{violation}, nil
	}
	return nil, []string{violation}
}

func (v *DomainRuleValidator) checkConvention(category domain.DomainCategory, value any, field *domain.PropertyField) string {
	switch category {
	case domain.CategorySizeClass:
		s, ok := value.(string)
		if !ok || !IsSizeClass(s) {
			return fmt.Sprintf("%s is not a standard size class (tiny, small, medium, large, huge, gargantuan)", field.Label)
		}

	case domain.CategoryMovementRate:
		n, ok := toNumber(value)
		if !ok {
			return ""
		}
		if n < 0 || n > 120 || math.Mod(n, 5) != 0 {
			return fmt.Sprintf("%s of %v is unusual; movement rates are normally 0-120 ft in steps of 5", field.Label, value)
		}

	case domain.CategoryAbilityScore:
		n, ok := toNumber(value)
		if !ok {
			return ""
		}
		if n < 1 || n > 30 {
			return fmt.Sprintf("%s of %v is outside the normal ability score range (1-30)", field.Label, value)
		}

	case domain.CategoryArmorRating:
		n, ok := toNumber(value)
		if !ok {
			return ""
		}
		if n < 5 || n > 30 {
			return fmt.Sprintf("%s of %v is outside the normal armor class range (5-30)", field.Label, value)
		}

	case domain.CategoryResourcePool:
		n, ok := toNumber(value)
		if !ok {
			return ""
		}
		if n < 1 || n > 1000 {
			return fmt.Sprintf("%s of %v is outside the normal range (1-1000)", field.Label, value)
		}
	}

	return ""
}
