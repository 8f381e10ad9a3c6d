package service

import (
	"testing"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"
)

type mockMapRepo struct {
	maps map[string]*domain.GameMap
}

func newMockMapRepo() *mockMapRepo {
	return &mockMapRepo{maps: make(map[string]*domain.GameMap)}
}

func (m *mockMapRepo) Create(gameMap *domain.GameMap) error {
	if _, exists := m.maps[gameMap.ID]; exists {
		return repository.ErrMapExists
	}
	m.maps[gameMap.ID] = gameMap
	return nil
}

func (m *mockMapRepo) Get(id string) (*domain.GameMap, error) {
	if gameMap, exists := m.maps[id]; exists {
		return gameMap, nil
	}
	return nil, repository.ErrMapNotFound
}

func (m *mockMapRepo) GetByOwner(ownerID string) ([]*domain.GameMap, error) {
	var maps []*domain.GameMap
	for _, gameMap := range m.maps {
		if gameMap.OwnerID == ownerID {
			maps = append(maps, gameMap)
		}
	}
	return maps, nil
}

func (m *mockMapRepo) Update(gameMap *domain.GameMap) error {
	if _, exists := m.maps[gameMap.ID]; !exists {
		return repository.ErrMapNotFound
	}
	m.maps[gameMap.ID] = gameMap
	return nil
}

func (m *mockMapRepo) Delete(id string) error {
	if _, exists := m.maps[id]; !exists {
		return repository.ErrMapNotFound
	}
	delete(m.maps, id)
	return nil
}

func TestMapService_CreateAppliesDefaultGridSize(t *testing.T) {
	service := NewMapService(newMockMapRepo(), newMockObjectRepo())

	resp, err := service.Create("u1", &domain.CreateMapRequest{Name: "Crypt of the Lich"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GridSize != defaultGridSize {
		t.Errorf("expected default grid size %d, got %d", defaultGridSize, resp.GridSize)
	}
	if resp.Name != "Crypt of the Lich" {
		t.Errorf("unexpected name %s", resp.Name)
	}
}

func TestMapService_OwnershipChecks(t *testing.T) {
	service := NewMapService(newMockMapRepo(), newMockObjectRepo())

	created, err := service.Create("u1", &domain.CreateMapRequest{Name: "Crypt", GridSize: 70})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := service.Get("u2", created.ID); err != ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied for another user, got %v", err)
	}
	if _, err := service.Update("u2", created.ID, &domain.UpdateMapRequest{Name: "Stolen"}); err != ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied on update, got %v", err)
	}
	if err := service.Delete("u2", created.ID); err != ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied on delete, got %v", err)
	}

	if _, err := service.Get("u1", created.ID); err != nil {
		t.Errorf("expected the owner to read the map, got %v", err)
	}
}

func TestMapService_DeleteSoftDeletesObjects(t *testing.T) {
	mapRepo := newMockMapRepo()
	objectRepo := newMockObjectRepo()
	service := NewMapService(mapRepo, objectRepo)

	created, err := service.Create("u1", &domain.CreateMapRequest{Name: "Crypt"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	objectRepo.Create(&domain.MapObject{ID: "objA", MapID: created.ID, Name: "Goblin", Type: "creature"})
	objectRepo.Create(&domain.MapObject{ID: "objB", MapID: created.ID, Name: "Door", Type: "door"})

	if err := service.Delete("u1", created.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := mapRepo.Get(created.ID); err != repository.ErrMapNotFound {
		t.Errorf("expected the map gone, got %v", err)
	}
	for _, id := range []string{"objA", "objB"} {
		object, err := objectRepo.FindByID(id)
		if err != nil || !object.IsDeleted {
			t.Errorf("expected %s soft-deleted", id)
		}
	}
}

func TestMapService_ObjectCountExcludesDeleted(t *testing.T) {
	mapRepo := newMockMapRepo()
	objectRepo := newMockObjectRepo()
	service := NewMapService(mapRepo, objectRepo)

	created, _ := service.Create("u1", &domain.CreateMapRequest{Name: "Crypt"})
	objectRepo.Create(&domain.MapObject{ID: "objA", MapID: created.ID})
	objectRepo.Create(&domain.MapObject{ID: "objB", MapID: created.ID, IsDeleted: true})

	resp, err := service.Get("u1", created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.ObjectCount != 1 {
		t.Errorf("expected object count 1, got %d", resp.ObjectCount)
	}
}
