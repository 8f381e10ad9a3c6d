package validation

import "battlemap-sync-server/internal/domain"

// Aggregator runs the field validator over every field of a schema and
// folds the per-field results into an object-level outcome.
type Aggregator struct {
	fields *FieldValidator
}

func NewAggregator(strict bool) *Aggregator {
	return &Aggregator{fields: NewFieldValidator(strict)}
}

func (a *Aggregator) FieldValidator() *FieldValidator {
	return a.fields
}

// ValidateObject validates values against fields. A key missing from values
// is validated as nil, so required fields still fail. The error and warning
// maps only contain keys whose field actually produced messages.
func (a *Aggregator) ValidateObject(fields []domain.PropertyField, values map[string]any) domain.ObjectValidation {
	out := domain.ObjectValidation{
		IsValid:         true,
		DomainCompliant: true,
		Results:         make([]domain.ValidationResult, 0, len(fields)),
		Errors:          make(map[string][]string),
		Warnings:        make(map[string][]string),
	}

	for i := range fields {
		field := &fields[i]
		result := a.fields.ValidateField(field, values[field.Key])
		out.Results = append(out.Results, result)

		if !result.IsValid {
			out.IsValid = false
		}
		if !result.DomainCompliant {
			out.DomainCompliant = false
		}
		if len(result.Errors) > 0 {
			out.Errors[field.Key] = result.Errors
		}
		if len(result.Warnings) > 0 {
			out.Warnings[field.Key] = result.Warnings
		}
	}

	return out
}
