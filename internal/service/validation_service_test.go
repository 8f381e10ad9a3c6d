package service

import (
	"testing"
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/validation"
)

func seedCreature(repo *mockObjectRepo) {
	repo.Create(&domain.MapObject{
		ID:    "objA",
		MapID: "map1",
		Name:  "Goblin",
		Type:  "creature",
		Properties: map[string]any{
			"name":       "Goblin",
			"size":       "small",
			"speed":      30.0,
			"hit_points": 7.0,
		},
		Version: 1,
	})
}

func newValidationServiceForTest(strict bool, debounce time.Duration) (*ValidationService, *mockObjectRepo) {
	repo := newMockObjectRepo()
	seedCreature(repo)
	return NewValidationService(validation.NewSchemaRegistry(), repo, strict, debounce), repo
}

func TestValidationService_OpenSeedsFromStoredObject(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 0)

	pv, err := service.Open("objA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if pv.ObjectType != "creature" {
		t.Errorf("expected creature, got %s", pv.ObjectType)
	}
	if pv.Values["speed"] != 30.0 {
		t.Errorf("expected seeded speed 30, got %v", pv.Values["speed"])
	}
	if !pv.IsValid {
		t.Errorf("expected a well-formed creature to open valid, errors: %v", pv.Errors)
	}
}

func TestValidationService_OpenUnknownObject(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 0)

	if _, err := service.Open("ghost"); err == nil {
		t.Error("expected an error for an unknown object")
	}
}

func TestValidationService_SetValueSynchronousWithoutDebounce(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 0)

	pv, err := service.SetValue("objA", "strength", 45.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if pv.IsValid {
		t.Error("expected strength 45 to fail validation immediately")
	}
	if len(pv.Errors["strength"]) == 0 {
		t.Error("expected an error recorded for strength")
	}
}

func TestValidationService_SetValueDebounces(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 20*time.Millisecond)

	pv, err := service.SetValue("objA", "strength", 45.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !pv.IsValid {
		t.Error("expected the pre-debounce snapshot to carry the previous validation state")
	}

	time.Sleep(60 * time.Millisecond)

	pv, err = service.Open("objA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pv.IsValid {
		t.Error("expected validation to have run after the debounce delay")
	}
}

func TestValidationService_ReEditReschedulesDebounce(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 20*time.Millisecond)

	if _, err := service.SetValue("objA", "strength", 45.0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Correct the value before the first timer fires.
	if _, err := service.SetValue("objA", "strength", 18.0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	pv, err := service.Open("objA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !pv.IsValid {
		t.Errorf("expected only the final value to be validated, errors: %v", pv.Errors)
	}
	if pv.Values["strength"] != 18.0 {
		t.Errorf("expected strength 18, got %v", pv.Values["strength"])
	}
}

func TestValidationService_ValidateCancelsPendingTimer(t *testing.T) {
	service, _ := newValidationServiceForTest(true, time.Hour)

	if _, err := service.SetValue("objA", "strength", 45.0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	result, err := service.Validate("objA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.IsValid {
		t.Error("expected an immediate validation run to see the bad value")
	}

	service.mu.Lock()
	_, armed := service.timers["objA"]
	service.mu.Unlock()
	if armed {
		t.Error("expected the debounce timer to be cancelled")
	}
}

func TestValidationService_LenientModeDowngradesDomainViolations(t *testing.T) {
	service, _ := newValidationServiceForTest(false, 0)

	pv, err := service.SetValue("objA", "speed", 33.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !pv.IsValid {
		t.Errorf("lenient mode must not fail on a convention violation, errors: %v", pv.Errors)
	}
	if len(pv.Warnings["speed"]) == 0 {
		t.Error("expected a warning for a non-standard movement rate")
	}
}

func TestValidationService_ValidateValuesStateless(t *testing.T) {
	service, _ := newValidationServiceForTest(true, 0)

	result := service.ValidateValues("creature", map[string]any{
		"name":       "Ogre",
		"size":       "large",
		"hit_points": 59.0,
	})
	if !result.IsValid {
		t.Errorf("expected a valid value set, errors: %v", result.Errors)
	}

	result = service.ValidateValues("creature", map[string]any{
		"size": "colossal",
	})
	if result.IsValid {
		t.Error("expected missing required fields and a bad size to fail")
	}

	// No schema, nothing to check.
	result = service.ValidateValues("spaceship", map[string]any{"warp": 9})
	if !result.IsValid {
		t.Error("expected an unknown object type to validate clean")
	}
}

func TestValidationService_CloseDropsState(t *testing.T) {
	service, repo := newValidationServiceForTest(true, 0)

	if _, err := service.SetValue("objA", "strength", 3.0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	service.Close("objA")

	// Reopening seeds from the store again, not from the dropped edits.
	pv, err := service.Open("objA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := pv.Values["strength"]; ok {
		t.Errorf("expected the edit to be gone after close, got %v", pv.Values["strength"])
	}

	stored, _ := repo.FindByID("objA")
	if _, ok := stored.Properties["strength"]; ok {
		t.Error("edits must never leak into the stored object")
	}
}
