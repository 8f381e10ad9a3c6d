package service

import (
	"errors"
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"
	"battlemap-sync-server/internal/validation"

	"github.com/google/uuid"
)

type ObjectService struct {
	repo            repository.ObjectRepository
	registry        *validation.SchemaRegistry
	conflictService *ConflictService
	syncService     *SyncService
}

func NewObjectService(
	repo repository.ObjectRepository,
	registry *validation.SchemaRegistry,
	conflictService *ConflictService,
	syncService *SyncService,
) *ObjectService {
	return &ObjectService{
		repo:            repo,
		registry:        registry,
		conflictService: conflictService,
		syncService:     syncService,
	}
}

func (s *ObjectService) Create(userID string, req *domain.CreateObjectRequest) (*domain.ObjectResponse, error) {
	now := time.Now()

	object := &domain.MapObject{
		ID:           uuid.New().String(),
		MapID:        req.MapID,
		Name:         req.Name,
		Type:         req.Type,
		X:            req.X,
		Y:            req.Y,
		Rotation:     req.Rotation,
		Width:        req.Width,
		Height:       req.Height,
		Properties:   req.Properties,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
		CreatedBy:    userID,
		LastEditedBy: userID,
	}

	if object.Properties == nil {
		object.Properties = make(map[string]any)
	}
	s.applySchemaDefaults(object)

	if err := s.repo.Create(object); err != nil {
		return nil, err
	}

	if s.syncService != nil {
		s.syncService.BroadcastObjectUpdate(userID, object)
	}

	return objectToResponse(object), nil
}

// applySchemaDefaults fills properties the request left out with the
// schema's default values, so a fresh token starts rules-legal.
func (s *ObjectService) applySchemaDefaults(object *domain.MapObject) {
	if s.registry == nil {
		return
	}
	for _, field := range s.registry.GetFields(object.Type) {
		if field.DefaultValue == nil {
			continue
		}
		if _, ok := object.Properties[field.Key]; !ok {
			object.Properties[field.Key] = field.DefaultValue
		}
	}
}

func (s *ObjectService) ListByMap(mapID string) ([]*domain.ObjectResponse, error) {
	objects, err := s.repo.ListByMap(mapID)
	if err != nil {
		return nil, err
	}

	var responses []*domain.ObjectResponse
	for _, object := range objects {
		if object.IsDeleted {
			continue
		}
		responses = append(responses, objectToResponse(object))
	}

	return responses, nil
}

func (s *ObjectService) GetByID(objectID string) (*domain.ObjectResponse, error) {
	object, err := s.repo.FindByID(objectID)
	if err != nil {
		return nil, err
	}

	return objectToResponse(object), nil
}

// Update applies an edit directly when the client's expected version still
// matches. On a mismatch the edit is not applied: it becomes an operation
// in the conflict log and the caller gets a ConflictError carrying the
// pending group.
func (s *ObjectService) Update(userID, objectID string, req *domain.UpdateObjectRequest) (*domain.ObjectResponse, error) {
	object, err := s.repo.FindByID(objectID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != object.Version {
		if s.conflictService == nil {
			return nil, errors.New("version mismatch")
		}
		_, group, err := s.conflictService.Submit(userID, updateToOperation(objectID, req))
		if err != nil {
			return nil, err
		}
		return nil, &ConflictError{Group: group}
	}

	if req.Name != nil {
		object.Name = *req.Name
	}
	if req.X != nil {
		object.X = *req.X
	}
	if req.Y != nil {
		object.Y = *req.Y
	}
	if req.Rotation != nil {
		object.Rotation = *req.Rotation
	}
	if req.Width != nil {
		object.Width = *req.Width
	}
	if req.Height != nil {
		object.Height = *req.Height
	}
	if req.Properties != nil {
		if object.Properties == nil {
			object.Properties = make(map[string]any)
		}
		for k, v := range req.Properties {
			object.Properties[k] = v
		}
	}

	object.UpdatedAt = time.Now()
	object.Version++
	object.LastEditedBy = userID

	if err := s.repo.Update(object); err != nil {
		return nil, err
	}

	if s.syncService != nil {
		s.syncService.BroadcastObjectUpdate(userID, object)
	}

	return objectToResponse(object), nil
}

func (s *ObjectService) Delete(userID, objectID string) error {
	object, err := s.repo.FindByID(objectID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(objectID); err != nil {
		return err
	}

	if s.syncService != nil {
		s.syncService.BroadcastObjectDelete(userID, object.MapID, objectID, object.Version+1)
	}

	return nil
}

// updateToOperation turns a rejected direct edit into a conflict-log
// operation. Position-only edits become move operations so two-way drag
// races stay eligible for auto-resolution.
func updateToOperation(objectID string, req *domain.UpdateObjectRequest) *domain.SubmitOperationRequest {
	positionOnly := (req.X != nil || req.Y != nil || req.Rotation != nil) &&
		req.Name == nil && req.Width == nil && req.Height == nil && len(req.Properties) == 0

	opType := domain.OperationUpdate
	if positionOnly {
		opType = domain.OperationMove
	}

	return &domain.SubmitOperationRequest{
		Type:           opType,
		TargetObjectID: objectID,
		Payload: domain.OperationPayload{
			X:          req.X,
			Y:          req.Y,
			Rotation:   req.Rotation,
			Name:       req.Name,
			Properties: req.Properties,
		},
	}
}

func objectToResponse(object *domain.MapObject) *domain.ObjectResponse {
	return &domain.ObjectResponse{
		ID:           object.ID,
		MapID:        object.MapID,
		Name:         object.Name,
		Type:         object.Type,
		X:            object.X,
		Y:            object.Y,
		Rotation:     object.Rotation,
		Width:        object.Width,
		Height:       object.Height,
		Properties:   object.Properties,
		CreatedAt:    object.CreatedAt,
		UpdatedAt:    object.UpdatedAt,
		IsDeleted:    object.IsDeleted,
		Version:      object.Version,
		CreatedBy:    object.CreatedBy,
		LastEditedBy: object.LastEditedBy,
	}
}
