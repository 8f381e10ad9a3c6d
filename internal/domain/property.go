package domain

import "time"

type FieldType string

const (
	FieldText      FieldType = "text"
	FieldNumber    FieldType = "number"
	FieldBoolean   FieldType = "boolean"
	FieldColor     FieldType = "color"
	FieldSelect    FieldType = "select"
	FieldSizeClass FieldType = "size-class"
)

type RuleType string

const (
	RuleRequired RuleType = "required"
	RuleMin      RuleType = "min"
	RuleMax      RuleType = "max"
	RulePattern  RuleType = "pattern"
	RuleCustom   RuleType = "custom"
)

// DomainCategory tags a DomainRule with the 5e convention it checks.
type DomainCategory string

const (
	CategorySizeClass    DomainCategory = "size-class"
	CategoryMovementRate DomainCategory = "movement-rate"
	CategoryAbilityScore DomainCategory = "ability-score"
	CategoryArmorRating  DomainCategory = "armor-rating"
	CategoryResourcePool DomainCategory = "resource-pool"
)

// ValidationRule is one generic constraint on a field value. Custom rules
// delegate to Validator; the other types read Value.
type ValidationRule struct {
	Type      RuleType       `json:"type"`
	Value     any            `json:"value,omitempty"`
	Message   string         `json:"message"`
	Validator func(any) bool `json:"-"`
}

// DomainRule is a 5e convention check. When EnforceOfficial is false the
// rule stays silent so homebrew values pass untouched.
type DomainRule struct {
	Category        DomainCategory `json:"category"`
	EnforceOfficial bool           `json:"enforce_official"`
}

// PropertyField describes one editable attribute of an object type.
type PropertyField struct {
	ID           string           `json:"id"`
	Key          string           `json:"key"`
	Label        string           `json:"label"`
	Type         FieldType        `json:"type"`
	Group        string           `json:"group"`
	Required     bool             `json:"required"`
	Validation   []ValidationRule `json:"validation,omitempty"`
	DomainRule   *DomainRule      `json:"domain_rule,omitempty"`
	DefaultValue any              `json:"default_value,omitempty"`
	Min          *float64         `json:"min,omitempty"`
	Max          *float64         `json:"max,omitempty"`
	Step         *float64         `json:"step,omitempty"`
	Options      []string         `json:"options,omitempty"`
	Custom       bool             `json:"custom"`
}

type PropertyGroup struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Order int    `json:"order"`
}

type PropertySchema struct {
	ObjectType string          `json:"object_type"`
	Label      string          `json:"label"`
	Groups     []PropertyGroup `json:"groups"`
	Fields     []PropertyField `json:"fields"`
}

// ValidationResult is the outcome of validating one field value.
type ValidationResult struct {
	Field           string   `json:"field"`
	IsValid         bool     `json:"is_valid"`
	Errors          []string `json:"errors,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	DomainCompliant bool     `json:"domain_compliant"`
}

// ObjectValidation folds per-field results into an object-level outcome.
// Errors and Warnings only carry keys whose field produced messages.
type ObjectValidation struct {
	IsValid         bool                `json:"is_valid"`
	Results         []ValidationResult  `json:"results"`
	Errors          map[string][]string `json:"errors"`
	Warnings        map[string][]string `json:"warnings"`
	DomainCompliant bool                `json:"domain_compliant"`
}

// PropertyValues is the live value set for one object under edit.
type PropertyValues struct {
	ObjectID     string              `json:"object_id"`
	ObjectType   string              `json:"object_type"`
	Values       map[string]any      `json:"values"`
	IsValid      bool                `json:"is_valid"`
	Errors       map[string][]string `json:"errors"`
	Warnings     map[string][]string `json:"warnings"`
	LastModified time.Time           `json:"last_modified"`
}

type AddCustomFieldRequest struct {
	Key      string    `json:"key" validate:"required,min=1,max=60"`
	Label    string    `json:"label" validate:"required"`
	Type     FieldType `json:"type" validate:"required,oneof=text number boolean color select size-class"`
	Group    string    `json:"group"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min"`
	Max      *float64  `json:"max"`
	Options  []string  `json:"options"`
}

type SetValueRequest struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}
