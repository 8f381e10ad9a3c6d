package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"battlemap-sync-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var ErrObjectNotFound = errors.New("map object not found")

type ObjectRepository interface {
	Create(object *domain.MapObject) error
	FindByID(id string) (*domain.MapObject, error)
	ListByMap(mapID string) ([]*domain.MapObject, error)
	Update(object *domain.MapObject) error
	Delete(id string) error
}

type objectRepository struct {
	client *kivik.Client
	dbName string
}

func NewObjectRepository(client *kivik.Client, dbName string) ObjectRepository {
	return &objectRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *objectRepository) Create(object *domain.MapObject) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("object:%s", object.ID)
	_, err := db.Put(context.Background(), docID, object)
	if err != nil {
		return fmt.Errorf("failed to create map object: %w", err)
	}

	return nil
}

func (r *objectRepository) FindByID(id string) (*domain.MapObject, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("object:%s", id)
	row := db.Get(context.Background(), docID)

	var object domain.MapObject
	if err := row.ScanDoc(&object); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to find map object: %w", err)
	}

	return &object, nil
}

func (r *objectRepository) ListByMap(mapID string) ([]*domain.MapObject, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"map_id": mapID,
			"type":   map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list map objects: %w", err)
	}
	defer rows.Close()

	var objects []*domain.MapObject
	for rows.Next() {
		var object domain.MapObject
		if err := rows.ScanDoc(&object); err != nil {
			continue
		}
		objects = append(objects, &object)
	}

	return objects, nil
}

func (r *objectRepository) Update(object *domain.MapObject) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("object:%s", object.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing map object for update: %w", err)
	}

	existingDoc["name"] = object.Name
	existingDoc["x"] = object.X
	existingDoc["y"] = object.Y
	existingDoc["rotation"] = object.Rotation
	existingDoc["width"] = object.Width
	existingDoc["height"] = object.Height
	existingDoc["properties"] = object.Properties
	existingDoc["last_edited_by"] = object.LastEditedBy
	existingDoc["updated_at"] = time.Now()
	existingDoc["version"] = object.Version // Service should increment this
	existingDoc["is_deleted"] = object.IsDeleted

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update map object: %w", err)
	}

	return nil
}

func (r *objectRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("object:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return err
	}

	existingDoc["is_deleted"] = true
	existingDoc["updated_at"] = time.Now()

	if v, ok := existingDoc["version"].(float64); ok {
		existingDoc["version"] = int64(v) + 1
	}

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to delete map object: %w", err)
	}

	return nil
}
