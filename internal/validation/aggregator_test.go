package validation

import (
	"testing"

	"battlemap-sync-server/internal/domain"
)

func TestValidateObject_AllValid(t *testing.T) {
	a := NewAggregator(false)
	registry := NewSchemaRegistry()
	fields := registry.GetFields("creature")

	values := map[string]any{
		"name":        "Goblin",
		"size":        "small",
		"speed":       30.0,
		"strength":    8.0,
		"dexterity":   14.0,
		"armor_class": 15.0,
		"hit_points":  7.0,
		"token_color": "#2ECC71",
		"is_hostile":  true,
	}

	out := a.ValidateObject(fields, values)
	if !out.IsValid {
		t.Errorf("expected valid object, got errors %v", out.Errors)
	}
	if !out.DomainCompliant {
		t.Errorf("expected domain-compliant object, got warnings %v", out.Warnings)
	}
	if len(out.Errors) != 0 || len(out.Warnings) != 0 {
		t.Errorf("expected empty maps, got errors %v warnings %v", out.Errors, out.Warnings)
	}
	if len(out.Results) != len(fields) {
		t.Errorf("expected one result per field, got %d for %d fields", len(out.Results), len(fields))
	}
}

func TestValidateObject_MissingRequiredKeyFails(t *testing.T) {
	a := NewAggregator(false)
	registry := NewSchemaRegistry()
	fields := registry.GetFields("creature")

	// name and hit_points missing entirely
	values := map[string]any{
		"size": "medium",
	}

	out := a.ValidateObject(fields, values)
	if out.IsValid {
		t.Error("expected object with missing required fields to be invalid")
	}
	if _, ok := out.Errors["name"]; !ok {
		t.Error("expected an error entry for name")
	}
	if _, ok := out.Errors["hit_points"]; !ok {
		t.Error("expected an error entry for hit_points")
	}
	if _, ok := out.Errors["size"]; ok {
		t.Errorf("did not expect an error entry for size, got %v", out.Errors["size"])
	}
}

func TestValidateObject_WarningsDoNotInvalidate(t *testing.T) {
	a := NewAggregator(false)
	registry := NewSchemaRegistry()
	fields := registry.GetFields("creature")

	values := map[string]any{
		"name":       "Homebrew Titan",
		"size":       "medium",
		"speed":      63.0, // not a multiple of 5
		"hit_points": 40.0,
	}

	out := a.ValidateObject(fields, values)
	if !out.IsValid {
		t.Errorf("expected warnings-only object to stay valid, got errors %v", out.Errors)
	}
	if out.DomainCompliant {
		t.Error("expected domainCompliant=false with an out-of-convention speed")
	}
	if len(out.Warnings["speed"]) == 0 {
		t.Error("expected a warning entry for speed")
	}
}

func TestValidateObject_CleanFieldsOmittedFromMaps(t *testing.T) {
	a := NewAggregator(false)
	fields := []domain.PropertyField{
		{ID: "a", Key: "ok", Label: "OK", Type: domain.FieldText},
		{
			ID: "b", Key: "bad", Label: "Bad", Type: domain.FieldText, Required: true,
			Validation: []domain.ValidationRule{{Type: domain.RuleRequired, Message: "required"}},
		},
	}

	out := a.ValidateObject(fields, map[string]any{"ok": "fine"})
	if len(out.Errors) != 1 {
		t.Errorf("expected exactly one error key, got %v", out.Errors)
	}
	if _, ok := out.Errors["ok"]; ok {
		t.Error("clean field must not appear in the error map, even with an empty slice")
	}
}

func TestValidateObject_NoFieldsMeansValid(t *testing.T) {
	a := NewAggregator(true)

	out := a.ValidateObject(nil, map[string]any{"anything": "goes"})
	if !out.IsValid || !out.DomainCompliant {
		t.Error("expected object with no schema fields to validate as a pass-through")
	}
}
