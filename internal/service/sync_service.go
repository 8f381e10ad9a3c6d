package service

import (
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"
	"battlemap-sync-server/internal/websocket"
)

// SyncService pushes map state to editor clients: a full diff on demand,
// live fan-out of object edits and conflict lifecycle events otherwise.
type SyncService struct {
	objectRepo repository.ObjectRepository
	wsManager  *websocket.Manager
}

func NewSyncService(objectRepo repository.ObjectRepository, wsManager *websocket.Manager) *SyncService {
	return &SyncService{
		objectRepo: objectRepo,
		wsManager:  wsManager,
	}
}

// ProcessSyncRequest compares the versions a client holds against the
// stored objects of the map and returns the changes it is missing.
func (s *SyncService) ProcessSyncRequest(req *domain.MapSyncRequest) (*domain.MapSyncResponse, error) {
	objects, err := s.objectRepo.ListByMap(req.MapID)
	if err != nil {
		return nil, err
	}

	var changes []*domain.ObjectChange

	for _, object := range objects {
		clientVersion, exists := req.ObjectVersions[object.ID]

		if !exists || clientVersion < object.Version {
			operation := "update"
			if object.IsDeleted {
				operation = "delete"
			}

			changes = append(changes, &domain.ObjectChange{
				ObjectID:  object.ID,
				Operation: operation,
				Version:   object.Version,
				Object:    objectToResponse(object),
			})
		}
	}

	return &domain.MapSyncResponse{
		Changes:  changes,
		SyncTime: time.Now(),
	}, nil
}

func (s *SyncService) BroadcastObjectUpdate(userID string, object *domain.MapObject) error {
	msg, err := websocket.NewMessage(websocket.TypeObjectUpdate, objectUpdatePayload(object))
	if err != nil {
		return err
	}

	return s.wsManager.BroadcastToMap(object.MapID, msg, userID)
}

func (s *SyncService) BroadcastObjectDelete(userID, mapID, objectID string, version int64) error {
	msg, err := websocket.NewMessage(websocket.TypeObjectDelete, &websocket.ObjectDeletePayload{
		ObjectID: objectID,
		MapID:    mapID,
		Version:  version,
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	return s.wsManager.BroadcastToMap(mapID, msg, userID)
}

// BroadcastConflictDetected tells everyone on the map that an object now
// needs review; nobody is excluded, the submitting user included.
func (s *SyncService) BroadcastConflictDetected(mapID string, group *domain.ConflictGroup) error {
	if mapID == "" {
		return nil
	}

	msg, err := websocket.NewMessage(websocket.TypeConflictDetected, &websocket.ConflictDetectedPayload{
		ObjectID:        group.ObjectID,
		ObjectName:      group.ObjectName,
		ConflictType:    string(group.ConflictType),
		OperationCount:  len(group.Operations),
		InvolvedUserIDs: group.InvolvedUserIDs,
		LastModifiedAt:  group.LastModifiedAt,
	})
	if err != nil {
		return err
	}

	return s.wsManager.BroadcastToMap(mapID, msg, "")
}

func (s *SyncService) BroadcastConflictResolved(mapID string, group *domain.ConflictGroup, strategy domain.ResolutionStrategy, object *domain.MapObject) error {
	if mapID == "" {
		return nil
	}

	payload := &websocket.ConflictResolvedPayload{
		ObjectID: group.ObjectID,
		Strategy: string(strategy),
	}
	if object != nil {
		payload.Object = objectUpdatePayload(object)
	}

	msg, err := websocket.NewMessage(websocket.TypeConflictResolved, payload)
	if err != nil {
		return err
	}

	return s.wsManager.BroadcastToMap(mapID, msg, "")
}

func objectUpdatePayload(object *domain.MapObject) *websocket.ObjectUpdatePayload {
	return &websocket.ObjectUpdatePayload{
		ObjectID:   object.ID,
		MapID:      object.MapID,
		Version:    object.Version,
		Name:       object.Name,
		X:          object.X,
		Y:          object.Y,
		Rotation:   object.Rotation,
		Properties: object.Properties,
		UpdatedAt:  object.UpdatedAt,
		EditedBy:   object.LastEditedBy,
	}
}
