package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"battlemap-sync-server/internal/domain"
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FieldValidator validates a single field value against its generic rules,
// its type-specific structural checks, and its domain rule. All checks run
// and accumulate; nothing short-circuits.
type FieldValidator struct {
	strict      bool
	domainRules *DomainRuleValidator
}

func NewFieldValidator(strict bool) *FieldValidator {
	return &FieldValidator{
		strict:      strict,
		domainRules: NewDomainRuleValidator(strict),
	}
}

func (v *FieldValidator) ValidateField(field *domain.PropertyField, value any) domain.ValidationResult {
	result := domain.ValidationResult{
		Field:           field.Key,
		IsValid:         true,
		DomainCompliant: true,
	}

	for _, rule := range field.Validation {
		if msg := checkRule(rule, value); msg != "" {
			result.Errors = append(result.Errors, msg)
		}
	}

	result.Errors = append(result.Errors, v.checkType(field, value)...)

	if field.DomainRule != nil {
		errs, warns := v.domainRules.Validate(field.DomainRule, value, field)
		if len(errs) > 0 || len(warns) > 0 {
			result.DomainCompliant = false
		}
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func checkRule(rule domain.ValidationRule, value any) string {
	switch rule.Type {
	case domain.RuleRequired:
		if isEmpty(value) {
			return ruleMessage(rule, "This field is required")
		}

	case domain.RuleMin:
		if isEmpty(value) {
			return ""
		}
		limit, ok := toNumber(rule.Value)
		if !ok {
			return ""
		}
		if s, isStr := value.(string); isStr {
			if float64(len(s)) < limit {
				return ruleMessage(rule, fmt.Sprintf("Must be at least %v characters", rule.Value))
			}
		} else if n, isNum := toNumber(value); isNum && n < limit {
			return ruleMessage(rule, fmt.Sprintf("Must be at least %v", rule.Value))
		}

	case domain.RuleMax:
		if isEmpty(value) {
			return ""
		}
		limit, ok := toNumber(rule.Value)
		if !ok {
			return ""
		}
		if s, isStr := value.(string); isStr {
			if float64(len(s)) > limit {
				return ruleMessage(rule, fmt.Sprintf("Must be at most %v characters", rule.Value))
			}
		} else if n, isNum := toNumber(value); isNum && n > limit {
			return ruleMessage(rule, fmt.Sprintf("Must be at most %v", rule.Value))
		}

	case domain.RulePattern:
		s, isStr := value.(string)
		if !isStr || s == "" {
			return ""
		}
		pattern, isStr := rule.Value.(string)
		if !isStr {
			return ""
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Malformed pattern is a configuration error, not a value error.
			return ""
		}
		if !re.MatchString(s) {
			return ruleMessage(rule, "Invalid format")
		}

	case domain.RuleCustom:
		if rule.Validator == nil || isEmpty(value) {
			return ""
		}
		if !rule.Validator(value) {
			return ruleMessage(rule, "Invalid value")
		}
	}

	return ""
}

// checkType runs the structural checks keyed on the field's type.
func (v *FieldValidator) checkType(field *domain.PropertyField, value any) []string {
	if isEmpty(value) {
		return nil
	}

	var errs []string

	switch field.Type {
	case domain.FieldNumber:
		n, ok := toNumber(value)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be a number", field.Label))
			break
		}
		if field.Min != nil && n < *field.Min {
			errs = append(errs, fmt.Sprintf("%s must be at least %v", field.Label, *field.Min))
		}
		if field.Max != nil && n > *field.Max {
			errs = append(errs, fmt.Sprintf("%s must be at most %v", field.Label, *field.Max))
		}

	case domain.FieldColor:
		s, ok := value.(string)
		if !ok || !hexColorPattern.MatchString(s) {
			errs = append(errs, fmt.Sprintf("%s must be a hex color like #RGB or #RRGGBB", field.Label))
		}

	case domain.FieldBoolean:
		if _, ok := value.(bool); !ok {
			errs = append(errs, fmt.Sprintf("%s must be true or false", field.Label))
		}

	case domain.FieldSelect:
		s, ok := value.(string)
		if !ok || (len(field.Options) > 0 && !containsString(field.Options, s)) {
			errs = append(errs, fmt.Sprintf("%s must be one of: %s", field.Label, strings.Join(field.Options, ", ")))
		}

	case domain.FieldSizeClass:
		s, ok := value.(string)
		if !ok || !IsSizeClass(s) {
			// Unrecognized sizes have no fallback: hard error when strict,
			// advisory otherwise.
			msg := fmt.Sprintf("%s is not a recognized size class", field.Label)
			if v.strict {
				errs = append(errs, msg)
			}
		}
	}

	return errs
}

func ruleMessage(rule domain.ValidationRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	return false
}

func toNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
