package validation

import (
	"testing"

	"battlemap-sync-server/internal/domain"
)

func TestDomainRules_InRangeValuesAreSilent(t *testing.T) {
	v := NewDomainRuleValidator(false)

	tests := []struct {
		category domain.DomainCategory
		value    any
	}{
		{domain.CategorySizeClass, "medium"},
		{domain.CategorySizeClass, "Gargantuan"},
		{domain.CategoryMovementRate, 30.0},
		{domain.CategoryMovementRate, 0.0},
		{domain.CategoryMovementRate, 120.0},
		{domain.CategoryAbilityScore, 1.0},
		{domain.CategoryAbilityScore, 30.0},
		{domain.CategoryArmorRating, 18.0},
		{domain.CategoryResourcePool, 250.0},
	}

	for _, tt := range tests {
		rule := &domain.DomainRule{Category: tt.category, EnforceOfficial: true}
		field := &domain.PropertyField{Key: "k", Label: "Value"}
		errs, warns := v.Validate(rule, tt.value, field)
		if len(errs) != 0 || len(warns) != 0 {
			t.Errorf("%s %v: expected no output, got errors %v warnings %v", tt.category, tt.value, errs, warns)
		}
	}
}

func TestDomainRules_OutOfConventionValues(t *testing.T) {
	v := NewDomainRuleValidator(false)

	tests := []struct {
		category domain.DomainCategory
		value    any
	}{
		{domain.CategorySizeClass, "colossal"},
		{domain.CategoryMovementRate, 63.0},
		{domain.CategoryMovementRate, 125.0},
		{domain.CategoryAbilityScore, 0.0},
		{domain.CategoryAbilityScore, 31.0},
		{domain.CategoryArmorRating, 4.0},
		{domain.CategoryArmorRating, 31.0},
		{domain.CategoryResourcePool, 0.0},
		{domain.CategoryResourcePool, 1001.0},
	}

	for _, tt := range tests {
		rule := &domain.DomainRule{Category: tt.category, EnforceOfficial: true}
		field := &domain.PropertyField{Key: "k", Label: "Value"}
		errs, warns := v.Validate(rule, tt.value, field)
		if len(warns) != 1 || len(errs) != 0 {
			t.Errorf("%s %v: expected one warning in lenient mode, got errors %v warnings %v", tt.category, tt.value, errs, warns)
		}
	}
}

func TestDomainRules_StrictModePromotesToError(t *testing.T) {
	v := NewDomainRuleValidator(true)
	rule := &domain.DomainRule{Category: domain.CategoryArmorRating, EnforceOfficial: true}
	field := &domain.PropertyField{Key: "armor_class", Label: "Armor Class"}

	errs, warns := v.Validate(rule, 50.0, field)
	if len(errs) != 1 || len(warns) != 0 {
		t.Errorf("expected one error in strict mode, got errors %v warnings %v", errs, warns)
	}
}

func TestDomainRules_NotEnforcedStaysSilent(t *testing.T) {
	v := NewDomainRuleValidator(true)
	rule := &domain.DomainRule{Category: domain.CategoryAbilityScore, EnforceOfficial: false}
	field := &domain.PropertyField{Key: "strength", Label: "Strength"}

	errs, warns := v.Validate(rule, 99.0, field)
	if len(errs) != 0 || len(warns) != 0 {
		t.Errorf("expected silence for unenforced rule, got errors %v warnings %v", errs, warns)
	}
}

func TestDomainRules_EmptyValueLeftToRequiredRule(t *testing.T) {
	v := NewDomainRuleValidator(true)
	rule := &domain.DomainRule{Category: domain.CategorySizeClass, EnforceOfficial: true}
	field := &domain.PropertyField{Key: "size", Label: "Size"}

	errs, warns := v.Validate(rule, nil, field)
	if len(errs) != 0 || len(warns) != 0 {
		t.Errorf("expected nil value to produce no domain output, got errors %v warnings %v", errs, warns)
	}
}
