package domain

import "time"

// MapObject is one placeable element on a map: a creature token, a wall
// segment, a light source, a furniture prop.
type MapObject struct {
	ID         string         `json:"id"`
	MapID      string         `json:"map_id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Rotation   float64        `json:"rotation"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Properties map[string]any `json:"properties"`

	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsDeleted    bool      `json:"is_deleted"`
	Version      int64     `json:"version"`
	CreatedBy    string    `json:"created_by"`
	LastEditedBy string    `json:"last_edited_by"`
}

// Clone returns a deep copy. Resolution strategies apply operations to a
// copy so a cancelled or failed resolution never touches the stored object.
func (o *MapObject) Clone() *MapObject {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Properties = make(map[string]any, len(o.Properties))
	for k, v := range o.Properties {
		clone.Properties[k] = v
	}
	return &clone
}

type CreateObjectRequest struct {
	MapID      string         `json:"map_id" validate:"required"`
	Name       string         `json:"name" validate:"required"`
	Type       string         `json:"type" validate:"required"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Rotation   float64        `json:"rotation"`
	Width      float64        `json:"width" validate:"gte=0"`
	Height     float64        `json:"height" validate:"gte=0"`
	Properties map[string]any `json:"properties"`
}

type UpdateObjectRequest struct {
	Name       *string        `json:"name"`
	X          *float64       `json:"x"`
	Y          *float64       `json:"y"`
	Rotation   *float64       `json:"rotation"`
	Width      *float64       `json:"width"`
	Height     *float64       `json:"height"`
	Properties map[string]any `json:"properties"`

	// ExpectedVersion routes the edit into the conflict engine when it no
	// longer matches the stored object.
	ExpectedVersion *int64 `json:"expected_version"`
}

type ObjectResponse struct {
	ID           string         `json:"id"`
	MapID        string         `json:"map_id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	X            float64        `json:"x"`
	Y            float64        `json:"y"`
	Rotation     float64        `json:"rotation"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	Properties   map[string]any `json:"properties"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	IsDeleted    bool           `json:"is_deleted"`
	Version      int64          `json:"version"`
	CreatedBy    string         `json:"created_by"`
	LastEditedBy string         `json:"last_edited_by"`
}
