package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"battlemap-sync-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrMapExists   = errors.New("map already exists")
)

type MapRepository interface {
	Create(gameMap *domain.GameMap) error
	Get(id string) (*domain.GameMap, error)
	GetByOwner(ownerID string) ([]*domain.GameMap, error)
	Update(gameMap *domain.GameMap) error
	Delete(id string) error
}

type CouchDBMapRepository struct {
	db *kivik.DB
}

type mapDoc struct {
	ID        string `json:"_id"`
	Rev       string `json:"_rev,omitempty"`
	DocType   string `json:"doc_type"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	GridSize  int    `json:"grid_size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewMapRepository(client *kivik.Client, dbName string) *CouchDBMapRepository {
	return &CouchDBMapRepository{
		db: client.DB(dbName),
	}
}

func (r *CouchDBMapRepository) Create(gameMap *domain.GameMap) error {
	doc := mapDoc{
		ID:        gameMap.ID,
		DocType:   "map",
		OwnerID:   gameMap.OwnerID,
		Name:      gameMap.Name,
		GridSize:  gameMap.GridSize,
		Width:     gameMap.Width,
		Height:    gameMap.Height,
		CreatedAt: gameMap.CreatedAt.Format(time.RFC3339),
		UpdatedAt: gameMap.UpdatedAt.Format(time.RFC3339),
	}

	_, err := r.db.Put(context.Background(), doc.ID, doc)
	if err != nil {
		if kivik.HTTPStatus(err) == 409 {
			return ErrMapExists
		}
		return fmt.Errorf("failed to create map: %w", err)
	}

	return nil
}

func (r *CouchDBMapRepository) Get(id string) (*domain.GameMap, error) {
	row := r.db.Get(context.Background(), id)

	var doc mapDoc
	if err := row.ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get map: %w", err)
	}

	return docToMap(&doc)
}

func (r *CouchDBMapRepository) GetByOwner(ownerID string) ([]*domain.GameMap, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": "map",
			"owner_id": ownerID,
		},
	}

	rows := r.db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query maps: %w", err)
	}
	defer rows.Close()

	var maps []*domain.GameMap
	for rows.Next() {
		var doc mapDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}

		m, err := docToMap(&doc)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}

	return maps, nil
}

func (r *CouchDBMapRepository) Update(gameMap *domain.GameMap) error {
	row := r.db.Get(context.Background(), gameMap.ID)
	var existingDoc mapDoc
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to get map for update: %w", err)
	}

	doc := mapDoc{
		ID:        gameMap.ID,
		Rev:       existingDoc.Rev,
		DocType:   "map",
		OwnerID:   gameMap.OwnerID,
		Name:      gameMap.Name,
		GridSize:  gameMap.GridSize,
		Width:     gameMap.Width,
		Height:    gameMap.Height,
		CreatedAt: gameMap.CreatedAt.Format(time.RFC3339),
		UpdatedAt: gameMap.UpdatedAt.Format(time.RFC3339),
	}

	_, err := r.db.Put(context.Background(), doc.ID, doc)
	if err != nil {
		return fmt.Errorf("failed to update map: %w", err)
	}

	return nil
}

func (r *CouchDBMapRepository) Delete(id string) error {
	row := r.db.Get(context.Background(), id)
	var doc mapDoc
	if err := row.ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to get map for delete: %w", err)
	}

	_, err := r.db.Delete(context.Background(), id, doc.Rev)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}

	return nil
}

func docToMap(doc *mapDoc) (*domain.GameMap, error) {
	createdAt, err := time.Parse(time.RFC3339, doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339, doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &domain.GameMap{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Name:      doc.Name,
		GridSize:  doc.GridSize,
		Width:     doc.Width,
		Height:    doc.Height,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
