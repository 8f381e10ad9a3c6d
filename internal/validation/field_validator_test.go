package validation

import (
	"testing"

	"battlemap-sync-server/internal/domain"
)

func requiredField() *domain.PropertyField {
	return &domain.PropertyField{
		ID: "f1", Key: "name", Label: "Name", Type: domain.FieldText, Required: true,
		Validation: []domain.ValidationRule{
			{Type: domain.RuleRequired, Message: "Name is required"},
		},
	}
}

func TestValidateField_RequiredRoundTrip(t *testing.T) {
	v := NewFieldValidator(false)
	field := requiredField()

	result := v.ValidateField(field, "")
	if result.IsValid {
		t.Error("expected empty value to be invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Name is required" {
		t.Errorf("expected configured message, got %v", result.Errors)
	}

	result = v.ValidateField(field, "x")
	if !result.IsValid {
		t.Errorf("expected non-empty value to be valid, got errors %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestValidateField_RequiredNil(t *testing.T) {
	v := NewFieldValidator(false)

	result := v.ValidateField(requiredField(), nil)
	if result.IsValid {
		t.Error("expected nil value to fail required rule")
	}
}

func TestValidateField_NumericRangeBoundary(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f2", Key: "strength", Label: "Strength", Type: domain.FieldNumber,
		Min: floatPtr(1), Max: floatPtr(30),
	}

	tests := []struct {
		value float64
		valid bool
	}{
		{0, false},
		{1, true},
		{15, true},
		{30, true},
		{31, false},
	}

	for _, tt := range tests {
		result := v.ValidateField(field, tt.value)
		if result.IsValid != tt.valid {
			t.Errorf("value %v: expected valid=%v, got %v (errors: %v)", tt.value, tt.valid, result.IsValid, result.Errors)
		}
	}
}

func TestValidateField_NumberMustParse(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{ID: "f3", Key: "speed", Label: "Speed", Type: domain.FieldNumber}

	if result := v.ValidateField(field, "not-a-number"); result.IsValid {
		t.Error("expected non-numeric string to be invalid for a number field")
	}
	if result := v.ValidateField(field, "25"); !result.IsValid {
		t.Errorf("expected numeric string to parse, got %v", result.Errors)
	}
}

func TestValidateField_ColorFormat(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{ID: "f4", Key: "color", Label: "Color", Type: domain.FieldColor}

	tests := []struct {
		value string
		valid bool
	}{
		{"#FF0000", true},
		{"#F00", true},
		{"#a1b2c3", true},
		{"red", false},
		{"#GGGGGG", false},
		{"FF0000", false},
		{"#FF00", false},
	}

	for _, tt := range tests {
		result := v.ValidateField(field, tt.value)
		if result.IsValid != tt.valid {
			t.Errorf("color %q: expected valid=%v, got %v", tt.value, tt.valid, result.IsValid)
		}
	}
}

func TestValidateField_Boolean(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{ID: "f5", Key: "is_open", Label: "Open", Type: domain.FieldBoolean}

	if result := v.ValidateField(field, true); !result.IsValid {
		t.Errorf("expected true to be valid, got %v", result.Errors)
	}
	if result := v.ValidateField(field, "yes"); result.IsValid {
		t.Error("expected non-boolean to be invalid")
	}
}

func TestValidateField_SelectOptions(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f6", Key: "material", Label: "Material", Type: domain.FieldSelect,
		Options: []string{"stone", "wood"},
	}

	if result := v.ValidateField(field, "stone"); !result.IsValid {
		t.Errorf("expected listed option to be valid, got %v", result.Errors)
	}
	if result := v.ValidateField(field, "glass"); result.IsValid {
		t.Error("expected unlisted option to be invalid")
	}
}

func TestValidateField_StringLengthRules(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f7", Key: "name", Label: "Name", Type: domain.FieldText,
		Validation: []domain.ValidationRule{
			{Type: domain.RuleMin, Value: 3.0, Message: "too short"},
			{Type: domain.RuleMax, Value: 5.0, Message: "too long"},
		},
	}

	if result := v.ValidateField(field, "ab"); result.IsValid {
		t.Error("expected 2-char string to fail min rule")
	}
	if result := v.ValidateField(field, "abcd"); !result.IsValid {
		t.Errorf("expected 4-char string to pass, got %v", result.Errors)
	}
	if result := v.ValidateField(field, "abcdef"); result.IsValid {
		t.Error("expected 6-char string to fail max rule")
	}
}

func TestValidateField_PatternRule(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f8", Key: "tag", Label: "Tag", Type: domain.FieldText,
		Validation: []domain.ValidationRule{
			{Type: domain.RulePattern, Value: `^[a-z-]+$`, Message: "lowercase and dashes only"},
		},
	}

	if result := v.ValidateField(field, "dungeon-prop"); !result.IsValid {
		t.Errorf("expected matching value to pass, got %v", result.Errors)
	}
	if result := v.ValidateField(field, "Dungeon Prop"); result.IsValid {
		t.Error("expected non-matching value to fail pattern rule")
	}
}

func TestValidateField_CustomRule(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f9", Key: "speed", Label: "Speed", Type: domain.FieldNumber,
		Validation: []domain.ValidationRule{
			{
				Type:    domain.RuleCustom,
				Message: "must be even",
				Validator: func(value any) bool {
					n, ok := toNumber(value)
					return ok && int(n)%2 == 0
				},
			},
		},
	}

	if result := v.ValidateField(field, 30.0); !result.IsValid {
		t.Errorf("expected even value to pass, got %v", result.Errors)
	}
	if result := v.ValidateField(field, 25.0); result.IsValid {
		t.Error("expected odd value to fail custom rule")
	}
}

func TestValidateField_NilCustomValidatorIsPassThrough(t *testing.T) {
	v := NewFieldValidator(false)
	field := &domain.PropertyField{
		ID: "f10", Key: "speed", Label: "Speed", Type: domain.FieldNumber,
		Validation: []domain.ValidationRule{
			{Type: domain.RuleCustom, Message: "never fires"},
		},
	}

	if result := v.ValidateField(field, 25.0); !result.IsValid {
		t.Errorf("expected missing validator func to pass through, got %v", result.Errors)
	}
}

func TestValidateField_LenientVsStrictDomainMode(t *testing.T) {
	field := &domain.PropertyField{
		ID: "f11", Key: "strength", Label: "Strength", Type: domain.FieldNumber,
		DomainRule: &domain.DomainRule{Category: domain.CategoryAbilityScore, EnforceOfficial: true},
	}

	lenient := NewFieldValidator(false).ValidateField(field, 45.0)
	if !lenient.IsValid {
		t.Errorf("lenient mode: expected out-of-convention value to stay valid, got errors %v", lenient.Errors)
	}
	if len(lenient.Warnings) == 0 {
		t.Error("lenient mode: expected a warning for out-of-convention value")
	}
	if lenient.DomainCompliant {
		t.Error("lenient mode: expected domainCompliant=false")
	}

	strict := NewFieldValidator(true).ValidateField(field, 45.0)
	if strict.IsValid {
		t.Error("strict mode: expected out-of-convention value to be invalid")
	}
	if len(strict.Errors) == 0 {
		t.Error("strict mode: expected an error for out-of-convention value")
	}
	if strict.DomainCompliant {
		t.Error("strict mode: expected domainCompliant=false")
	}
}

func TestValidateField_HomebrewAllowedWhenNotEnforced(t *testing.T) {
	field := &domain.PropertyField{
		ID: "f12", Key: "strength", Label: "Strength", Type: domain.FieldNumber,
		DomainRule: &domain.DomainRule{Category: domain.CategoryAbilityScore, EnforceOfficial: false},
	}

	result := NewFieldValidator(true).ValidateField(field, 45.0)
	if !result.IsValid || len(result.Warnings) != 0 {
		t.Errorf("expected homebrew value to pass silently, got errors %v warnings %v", result.Errors, result.Warnings)
	}
	if !result.DomainCompliant {
		t.Error("expected domainCompliant to stay true when rule is not enforced")
	}
}
