package domain

import "time"

type GameMap struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	GridSize  int       `json:"grid_size"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateMapRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	GridSize int    `json:"grid_size" validate:"omitempty,gte=10,lte=200"`
	Width    int    `json:"width" validate:"omitempty,gt=0"`
	Height   int    `json:"height" validate:"omitempty,gt=0"`
}

type UpdateMapRequest struct {
	Name     string `json:"name,omitempty"`
	GridSize int    `json:"grid_size,omitempty" validate:"omitempty,gte=10,lte=200"`
}

type MapResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GridSize    int       `json:"grid_size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ObjectCount int       `json:"object_count,omitempty"`
}
