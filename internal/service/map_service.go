package service

import (
	"errors"
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrMapNotFound  = errors.New("map not found")
	ErrAccessDenied = errors.New("access denied")
)

const defaultGridSize = 50

type MapService struct {
	mapRepo    repository.MapRepository
	objectRepo repository.ObjectRepository
}

func NewMapService(mapRepo repository.MapRepository, objectRepo repository.ObjectRepository) *MapService {
	return &MapService{
		mapRepo:    mapRepo,
		objectRepo: objectRepo,
	}
}

func (s *MapService) Create(ownerID string, req *domain.CreateMapRequest) (*domain.MapResponse, error) {
	gridSize := req.GridSize
	if gridSize == 0 {
		gridSize = defaultGridSize
	}

	gameMap := &domain.GameMap{
		ID:        "map:" + uuid.New().String(),
		OwnerID:   ownerID,
		Name:      req.Name,
		GridSize:  gridSize,
		Width:     req.Width,
		Height:    req.Height,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.mapRepo.Create(gameMap); err != nil {
		return nil, err
	}

	return s.mapToResponse(gameMap), nil
}

func (s *MapService) List(ownerID string) ([]*domain.MapResponse, error) {
	maps, err := s.mapRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.MapResponse, len(maps))
	for i, m := range maps {
		responses[i] = s.mapToResponse(m)
	}

	return responses, nil
}

func (s *MapService) Get(userID, mapID string) (*domain.MapResponse, error) {
	gameMap, err := s.mapRepo.Get(mapID)
	if err != nil {
		if errors.Is(err, repository.ErrMapNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, err
	}

	if gameMap.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	return s.mapToResponse(gameMap), nil
}

func (s *MapService) Update(userID, mapID string, req *domain.UpdateMapRequest) (*domain.MapResponse, error) {
	gameMap, err := s.mapRepo.Get(mapID)
	if err != nil {
		if errors.Is(err, repository.ErrMapNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, err
	}

	if gameMap.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	if req.Name != "" {
		gameMap.Name = req.Name
	}
	if req.GridSize != 0 {
		gameMap.GridSize = req.GridSize
	}
	gameMap.UpdatedAt = time.Now()

	if err := s.mapRepo.Update(gameMap); err != nil {
		return nil, err
	}

	return s.mapToResponse(gameMap), nil
}

// Delete removes the map and soft-deletes every object on it.
func (s *MapService) Delete(userID, mapID string) error {
	gameMap, err := s.mapRepo.Get(mapID)
	if err != nil {
		if errors.Is(err, repository.ErrMapNotFound) {
			return ErrMapNotFound
		}
		return err
	}

	if gameMap.OwnerID != userID {
		return ErrAccessDenied
	}

	objects, err := s.objectRepo.ListByMap(mapID)
	if err == nil {
		for _, object := range objects {
			s.objectRepo.Delete(object.ID)
		}
	}

	return s.mapRepo.Delete(mapID)
}

func (s *MapService) mapToResponse(gameMap *domain.GameMap) *domain.MapResponse {
	resp := &domain.MapResponse{
		ID:        gameMap.ID,
		Name:      gameMap.Name,
		GridSize:  gameMap.GridSize,
		Width:     gameMap.Width,
		Height:    gameMap.Height,
		CreatedAt: gameMap.CreatedAt,
		UpdatedAt: gameMap.UpdatedAt,
	}

	if objects, err := s.objectRepo.ListByMap(gameMap.ID); err == nil {
		count := 0
		for _, object := range objects {
			if !object.IsDeleted {
				count++
			}
		}
		resp.ObjectCount = count
	}

	return resp
}
