package service

import (
	"sync"
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"
	"battlemap-sync-server/internal/validation"
)

// ValidationService owns the live PropertyValues set, one entry per object
// under edit. Field edits do not validate immediately: each edit arms a
// debounce timer for the object and a later edit before it fires disarms
// and rearms it, so a drag over a number input validates once.
type ValidationService struct {
	registry   *validation.SchemaRegistry
	aggregator *validation.Aggregator
	objectRepo repository.ObjectRepository
	debounce   time.Duration

	mu     sync.Mutex
	values map[string]*domain.PropertyValues
	timers map[string]*time.Timer
}

func NewValidationService(
	registry *validation.SchemaRegistry,
	objectRepo repository.ObjectRepository,
	strict bool,
	debounce time.Duration,
) *ValidationService {
	return &ValidationService{
		registry:   registry,
		aggregator: validation.NewAggregator(strict),
		objectRepo: objectRepo,
		debounce:   debounce,
		values:     make(map[string]*domain.PropertyValues),
		timers:     make(map[string]*time.Timer),
	}
}

// Open loads (or returns) the live value set for an object, seeding it from
// the stored object on first selection and validating it once.
func (s *ValidationService) Open(objectID string) (*domain.PropertyValues, error) {
	s.mu.Lock()
	if pv, ok := s.values[objectID]; ok {
		snapshot := snapshotValues(pv)
		s.mu.Unlock()
		return snapshot, nil
	}
	s.mu.Unlock()

	object, err := s.objectRepo.FindByID(objectID)
	if err != nil {
		return nil, err
	}

	pv := &domain.PropertyValues{
		ObjectID:     object.ID,
		ObjectType:   object.Type,
		Values:       make(map[string]any, len(object.Properties)),
		IsValid:      true,
		Errors:       map[string][]string{},
		Warnings:     map[string][]string{},
		LastModified: time.Now(),
	}
	for k, v := range object.Properties {
		pv.Values[k] = v
	}

	s.mu.Lock()
	s.values[objectID] = pv
	s.revalidateLocked(pv)
	snapshot := snapshotValues(pv)
	s.mu.Unlock()

	return snapshot, nil
}

// SetValue records a field edit and schedules revalidation after the
// debounce delay. The returned snapshot carries the validation state of the
// previous run; the fresh one lands when the timer fires.
func (s *ValidationService) SetValue(objectID, key string, value any) (*domain.PropertyValues, error) {
	if _, err := s.Open(objectID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pv := s.values[objectID]
	pv.Values[key] = value
	pv.LastModified = time.Now()

	if s.debounce <= 0 {
		s.revalidateLocked(pv)
		return snapshotValues(pv), nil
	}

	if timer, ok := s.timers[objectID]; ok {
		timer.Stop()
	}
	s.timers[objectID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, objectID)
		if current, ok := s.values[objectID]; ok {
			s.revalidateLocked(current)
		}
	})

	return snapshotValues(pv), nil
}

// Validate runs validation for the object immediately, cancelling any
// armed debounce timer, and returns the full per-field breakdown.
func (s *ValidationService) Validate(objectID string) (*domain.ObjectValidation, error) {
	if _, err := s.Open(objectID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[objectID]; ok {
		timer.Stop()
		delete(s.timers, objectID)
	}

	pv := s.values[objectID]
	result := s.revalidateLocked(pv)
	return &result, nil
}

// ValidateValues is the stateless path: validate an arbitrary value set
// against an object type's schema. No schema means nothing to validate.
func (s *ValidationService) ValidateValues(objectType string, values map[string]any) domain.ObjectValidation {
	fields := s.registry.GetFields(objectType)
	return s.aggregator.ValidateObject(fields, values)
}

// Close drops the live value set for an object, usually on deselection.
func (s *ValidationService) Close(objectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[objectID]; ok {
		timer.Stop()
		delete(s.timers, objectID)
	}
	delete(s.values, objectID)
}

func (s *ValidationService) revalidateLocked(pv *domain.PropertyValues) domain.ObjectValidation {
	fields := s.registry.GetFields(pv.ObjectType)
	result := s.aggregator.ValidateObject(fields, pv.Values)

	pv.IsValid = result.IsValid
	pv.Errors = result.Errors
	pv.Warnings = result.Warnings

	return result
}

func snapshotValues(pv *domain.PropertyValues) *domain.PropertyValues {
	snapshot := &domain.PropertyValues{
		ObjectID:     pv.ObjectID,
		ObjectType:   pv.ObjectType,
		Values:       make(map[string]any, len(pv.Values)),
		IsValid:      pv.IsValid,
		Errors:       make(map[string][]string, len(pv.Errors)),
		Warnings:     make(map[string][]string, len(pv.Warnings)),
		LastModified: pv.LastModified,
	}
	for k, v := range pv.Values {
		snapshot.Values[k] = v
	}
	for k, v := range pv.Errors {
		snapshot.Errors[k] = v
	}
	for k, v := range pv.Warnings {
		snapshot.Warnings[k] = v
	}
	return snapshot
}
