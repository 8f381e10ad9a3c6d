package validation

import (
	"errors"
	"sort"
	"sync"

	"battlemap-sync-server/internal/domain"

	"github.com/google/uuid"
)

var ErrSchemaNotFound = errors.New("schema not found")

func floatPtr(v float64) *float64 { return &v }

// SchemaRegistry holds one PropertySchema per object type. Built-in schemas
// are seeded at construction and are never removed, only extended with
// custom fields.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*domain.PropertySchema
}

func NewSchemaRegistry() *SchemaRegistry {
	r := &SchemaRegistry{
		schemas: make(map[string]*domain.PropertySchema),
	}
	for _, schema := range builtinSchemas() {
		r.schemas[schema.ObjectType] = schema
	}
	return r
}

// GetSchema returns nil for an unknown object type; callers treat "no
// schema" as "no fields to validate".
func (r *SchemaRegistry) GetSchema(objectType string) *domain.PropertySchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[objectType]
}

func (r *SchemaRegistry) GetFields(objectType string) []domain.PropertyField {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[objectType]
	if !ok {
		return nil
	}
	fields := make([]domain.PropertyField, len(schema.Fields))
	copy(fields, schema.Fields)
	return fields
}

func (r *SchemaRegistry) GetGroups(objectType string) []domain.PropertyGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[objectType]
	if !ok {
		return nil
	}
	groups := make([]domain.PropertyGroup, len(schema.Groups))
	copy(groups, schema.Groups)
	return groups
}

func (r *SchemaRegistry) ObjectTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// AddCustomField assigns a fresh id and appends the field to the schema for
// objectType.
func (r *SchemaRegistry) AddCustomField(objectType string, field domain.PropertyField) (*domain.PropertyField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	schema, ok := r.schemas[objectType]
	if !ok {
		return nil, ErrSchemaNotFound
	}

	field.ID = uuid.New().String()
	field.Custom = true
	if field.Group == "" {
		field.Group = "custom"
	}
	schema.Fields = append(schema.Fields, field)

	added := field
	return &added, nil
}

// RemoveCustomField removes the field from every schema that references it.
// Built-in fields are never removed.
func (r *SchemaRegistry) RemoveCustomField(fieldID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for _, schema := range r.schemas {
		for i, f := range schema.Fields {
			if f.ID == fieldID && f.Custom {
				schema.Fields = append(schema.Fields[:i], schema.Fields[i+1:]...)
				removed = true
				break
			}
		}
	}
	return removed
}

func builtinSchemas() []*domain.PropertySchema {
	identityGroup := domain.PropertyGroup{ID: "identity", Label: "Identity", Order: 1}
	appearanceGroup := domain.PropertyGroup{ID: "appearance", Label: "Appearance", Order: 2}
	combatGroup := domain.PropertyGroup{ID: "combat", Label: "Combat", Order: 3}
	movementGroup := domain.PropertyGroup{ID: "movement", Label: "Movement", Order: 4}
	structureGroup := domain.PropertyGroup{ID: "structure", Label: "Structure", Order: 2}

	return []*domain.PropertySchema{
		{
			ObjectType: "creature",
			Label:      "Creature Token",
			Groups:     []domain.PropertyGroup{identityGroup, appearanceGroup, combatGroup, movementGroup},
			Fields: []domain.PropertyField{
				{
					ID: "creature-name", Key: "name", Label: "Name", Type: domain.FieldText,
					Group: "identity", Required: true,
					Validation: []domain.ValidationRule{
						{Type: domain.RuleRequired, Message: "Name is required"},
						{Type: domain.RuleMax, Value: 60.0, Message: "Name must be at most 60 characters"},
					},
				},
				{
					ID: "creature-size", Key: "size", Label: "Size", Type: domain.FieldSizeClass,
					Group: "identity", Required: true, DefaultValue: "medium",
					DomainRule: &domain.DomainRule{Category: domain.CategorySizeClass, EnforceOfficial: true},
					Validation: []domain.ValidationRule{
						{Type: domain.RuleRequired, Message: "Size is required"},
					},
				},
				{
					ID: "creature-speed", Key: "speed", Label: "Speed (ft)", Type: domain.FieldNumber,
					Group: "movement", DefaultValue: 30.0,
					Min: floatPtr(0), Max: floatPtr(120), Step: floatPtr(5),
					DomainRule: &domain.DomainRule{Category: domain.CategoryMovementRate, EnforceOfficial: true},
				},
				{
					ID: "creature-strength", Key: "strength", Label: "Strength", Type: domain.FieldNumber,
					Group: "combat", DefaultValue: 10.0,
					Min: floatPtr(1), Max: floatPtr(30),
					DomainRule: &domain.DomainRule{Category: domain.CategoryAbilityScore, EnforceOfficial: true},
				},
				{
					ID: "creature-dexterity", Key: "dexterity", Label: "Dexterity", Type: domain.FieldNumber,
					Group: "combat", DefaultValue: 10.0,
					Min: floatPtr(1), Max: floatPtr(30),
					DomainRule: &domain.DomainRule{Category: domain.CategoryAbilityScore, EnforceOfficial: true},
				},
				{
					ID: "creature-armor-class", Key: "armor_class", Label: "Armor Class", Type: domain.FieldNumber,
					Group: "combat", DefaultValue: 10.0,
					DomainRule: &domain.DomainRule{Category: domain.CategoryArmorRating, EnforceOfficial: true},
				},
				{
					ID: "creature-hit-points", Key: "hit_points", Label: "Hit Points", Type: domain.FieldNumber,
					Group: "combat", Required: true, DefaultValue: 10.0,
					Validation: []domain.ValidationRule{
						{Type: domain.RuleRequired, Message: "Hit points are required"},
					},
					DomainRule: &domain.DomainRule{Category: domain.CategoryResourcePool, EnforceOfficial: true},
				},
				{
					ID: "creature-token-color", Key: "token_color", Label: "Token Color", Type: domain.FieldColor,
					Group: "appearance", DefaultValue: "#C0392B",
				},
				{
					ID: "creature-hostile", Key: "is_hostile", Label: "Hostile", Type: domain.FieldBoolean,
					Group: "identity", DefaultValue: false,
				},
			},
		},
		{
			ObjectType: "wall",
			Label:      "Wall",
			Groups:     []domain.PropertyGroup{identityGroup, structureGroup},
			Fields: []domain.PropertyField{
				{
					ID: "wall-material", Key: "material", Label: "Material", Type: domain.FieldSelect,
					Group: "structure", DefaultValue: "stone",
					Options: []string{"stone", "wood", "brick", "metal"},
				},
				{
					ID: "wall-thickness", Key: "thickness", Label: "Thickness (ft)", Type: domain.FieldNumber,
					Group: "structure", DefaultValue: 1.0,
					Min: floatPtr(0.5), Max: floatPtr(10),
				},
				{
					ID: "wall-blocks-movement", Key: "blocks_movement", Label: "Blocks Movement", Type: domain.FieldBoolean,
					Group: "structure", DefaultValue: true,
				},
				{
					ID: "wall-blocks-sight", Key: "blocks_sight", Label: "Blocks Sight", Type: domain.FieldBoolean,
					Group: "structure", DefaultValue: true,
				},
				{
					ID: "wall-color", Key: "color", Label: "Color", Type: domain.FieldColor,
					Group: "structure", DefaultValue: "#7F8C8D",
				},
			},
		},
		{
			ObjectType: "door",
			Label:      "Door",
			Groups:     []domain.PropertyGroup{identityGroup, structureGroup},
			Fields: []domain.PropertyField{
				{
					ID: "door-material", Key: "material", Label: "Material", Type: domain.FieldSelect,
					Group: "structure", DefaultValue: "wood",
					Options: []string{"wood", "stone", "metal"},
				},
				{
					ID: "door-open", Key: "is_open", Label: "Open", Type: domain.FieldBoolean,
					Group: "structure", DefaultValue: false,
				},
				{
					ID: "door-locked", Key: "is_locked", Label: "Locked", Type: domain.FieldBoolean,
					Group: "structure", DefaultValue: false,
				},
				{
					ID: "door-color", Key: "color", Label: "Color", Type: domain.FieldColor,
					Group: "structure", DefaultValue: "#8B5A2B",
				},
			},
		},
		{
			ObjectType: "light",
			Label:      "Light Source",
			Groups:     []domain.PropertyGroup{identityGroup, appearanceGroup},
			Fields: []domain.PropertyField{
				{
					ID: "light-radius", Key: "radius", Label: "Radius (ft)", Type: domain.FieldNumber,
					Group: "appearance", DefaultValue: 20.0,
					Min: floatPtr(0), Max: floatPtr(120), Step: floatPtr(5),
				},
				{
					ID: "light-bright", Key: "is_bright", Label: "Bright Light", Type: domain.FieldBoolean,
					Group: "appearance", DefaultValue: true,
				},
				{
					ID: "light-color", Key: "color", Label: "Color", Type: domain.FieldColor,
					Group: "appearance", DefaultValue: "#F1C40F",
				},
			},
		},
		{
			ObjectType: "furniture",
			Label:      "Furniture",
			Groups:     []domain.PropertyGroup{identityGroup, structureGroup},
			Fields: []domain.PropertyField{
				{
					ID: "furniture-name", Key: "name", Label: "Name", Type: domain.FieldText,
					Group: "identity",
					Validation: []domain.ValidationRule{
						{Type: domain.RuleMax, Value: 60.0, Message: "Name must be at most 60 characters"},
					},
				},
				{
					ID: "furniture-material", Key: "material", Label: "Material", Type: domain.FieldSelect,
					Group: "structure", DefaultValue: "wood",
					Options: []string{"wood", "stone", "metal", "cloth"},
				},
				{
					ID: "furniture-blocking", Key: "is_blocking", Label: "Blocks Movement", Type: domain.FieldBoolean,
					Group: "structure", DefaultValue: true,
				},
				{
					ID: "furniture-color", Key: "color", Label: "Color", Type: domain.FieldColor,
					Group: "structure", DefaultValue: "#A0522D",
				},
			},
		},
		{
			ObjectType: "spell-effect",
			Label:      "Spell Effect",
			Groups:     []domain.PropertyGroup{identityGroup, appearanceGroup},
			Fields: []domain.PropertyField{
				{
					ID: "spell-shape", Key: "shape", Label: "Shape", Type: domain.FieldSelect,
					Group: "appearance", DefaultValue: "circle", Required: true,
					Options: []string{"circle", "cone", "line", "cube"},
					Validation: []domain.ValidationRule{
						{Type: domain.RuleRequired, Message: "Shape is required"},
					},
				},
				{
					ID: "spell-radius", Key: "radius", Label: "Radius (ft)", Type: domain.FieldNumber,
					Group: "appearance", DefaultValue: 20.0,
					Min: floatPtr(5), Max: floatPtr(120), Step: floatPtr(5),
					DomainRule: &domain.DomainRule{Category: domain.CategoryMovementRate, EnforceOfficial: false},
				},
				{
					ID: "spell-color", Key: "color", Label: "Color", Type: domain.FieldColor,
					Group: "appearance", DefaultValue: "#8E44AD",
				},
			},
		},
	}
}
