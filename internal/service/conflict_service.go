package service

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/repository"

	"github.com/google/uuid"
)

// ClassifyOperation maps an operation to its conflict category. The
// category of a group is fixed by the first operation seen for the object;
// unrecognized operation types fall into the properties bucket.
func ClassifyOperation(op *domain.Operation) domain.ConflictType {
	switch op.Type {
	case domain.OperationCreate:
		return domain.ConflictCreation
	case domain.OperationDelete:
		return domain.ConflictDeletion
	case domain.OperationMove:
		return domain.ConflictPosition
	case domain.OperationUpdate:
		return domain.ConflictProperties
	default:
		return domain.ConflictProperties
	}
}

func groupKey(op *domain.Operation) string {
	if op.TargetObjectID != "" {
		return op.TargetObjectID
	}
	return op.ID
}

func newGroup(op *domain.Operation) *domain.ConflictGroup {
	return &domain.ConflictGroup{
		ObjectID:        groupKey(op),
		Operations:      []*domain.Operation{op},
		ConflictType:    ClassifyOperation(op),
		LastModifiedAt:  op.Timestamp,
		InvolvedUserIDs: []string{op.UserID},
	}
}

func appendOperation(group *domain.ConflictGroup, op *domain.Operation) {
	group.Operations = append(group.Operations, op)

	known := false
	for _, id := range group.InvolvedUserIDs {
		if id == op.UserID {
			known = true
			break
		}
	}
	if !known {
		group.InvolvedUserIDs = append(group.InvolvedUserIDs, op.UserID)
	}

	if op.Timestamp.After(group.LastModifiedAt) {
		group.LastModifiedAt = op.Timestamp
	}
}

func sortGroups(groups []*domain.ConflictGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastModifiedAt.After(groups[j].LastModifiedAt)
	})
}

// GroupOperations folds operations in arrival order into one group per
// target object. Every operation lands in exactly one group; output is
// sorted most recently touched first.
func GroupOperations(operations []*domain.Operation) []*domain.ConflictGroup {
	index := make(map[string]*domain.ConflictGroup)
	var groups []*domain.ConflictGroup

	for _, op := range operations {
		key := groupKey(op)
		if group, ok := index[key]; ok {
			appendOperation(group, op)
			continue
		}
		group := newGroup(op)
		index[key] = group
		groups = append(groups, group)
	}

	sortGroups(groups)
	return groups
}

// ShouldAutoResolve reports whether a group qualifies for silent
// resolution. Only a two-way position race does: last-writer-wins is
// unambiguous there, while creation/deletion/property conflicts and 3+-way
// races go to manual review.
func ShouldAutoResolve(group *domain.ConflictGroup) bool {
	return group.ConflictType == domain.ConflictPosition && len(group.Operations) == 2
}

// applyOperation applies one operation's payload to object in place. Move
// overwrites position; update shallow-merges into name and properties.
// Create and delete are no-ops here: deletion semantics during resolution
// are an unsettled product decision.
func applyOperation(object *domain.MapObject, op *domain.Operation) {
	switch op.Type {
	case domain.OperationMove:
		if op.Payload.X != nil {
			object.X = *op.Payload.X
		}
		if op.Payload.Y != nil {
			object.Y = *op.Payload.Y
		}
		if op.Payload.Rotation != nil {
			object.Rotation = *op.Payload.Rotation
		}

	case domain.OperationUpdate:
		if op.Payload.Name != nil {
			object.Name = *op.Payload.Name
		}
		if len(op.Payload.Properties) > 0 {
			if object.Properties == nil {
				object.Properties = make(map[string]any, len(op.Payload.Properties))
			}
			for k, v := range op.Payload.Properties {
				object.Properties[k] = v
			}
		}
	}
}

// ResolveGroup computes the object state a strategy produces, working on a
// copy of base. Returns nil for cancel and for a missing base object; the
// caller clears the group without writing in both cases.
func ResolveGroup(group *domain.ConflictGroup, strategy domain.ResolutionStrategy, base *domain.MapObject, localUserID string) (*domain.MapObject, error) {
	if base == nil || strategy == domain.ResolutionCancel {
		return nil, nil
	}

	switch strategy {
	case domain.ResolutionKeepMine:
		return base.Clone(), nil

	case domain.ResolutionKeepTheirs:
		var latest *domain.Operation
		for _, op := range group.Operations {
			if op.UserID == localUserID {
				continue
			}
			if latest == nil || op.Timestamp.After(latest.Timestamp) {
				latest = op
			}
		}
		resolved := base.Clone()
		if latest != nil {
			applyOperation(resolved, latest)
		}
		return resolved, nil

	case domain.ResolutionMergeChrono:
		ops := make([]*domain.Operation, len(group.Operations))
		copy(ops, group.Operations)
		sort.SliceStable(ops, func(i, j int) bool {
			return ops[i].Timestamp.Before(ops[j].Timestamp)
		})

		resolved := base.Clone()
		for _, op := range ops {
			applyOperation(resolved, op)
		}
		return resolved, nil

	default:
		return nil, ErrUnknownStrategy
	}
}

// ConflictService owns the pending-conflicts set. Grouping and resolution
// are pure functions over the operations; the service applies their results
// under one lock so a resolving group is gone from the pending set before
// anything re-reads it.
type ConflictService struct {
	objectRepo    repository.ObjectRepository
	operationRepo repository.OperationRepository
	syncService   *SyncService
	autoResolve   bool

	mu      sync.Mutex
	pending map[string]*domain.ConflictGroup
}

func NewConflictService(
	objectRepo repository.ObjectRepository,
	operationRepo repository.OperationRepository,
	syncService *SyncService,
	autoResolve bool,
) *ConflictService {
	return &ConflictService{
		objectRepo:    objectRepo,
		operationRepo: operationRepo,
		syncService:   syncService,
		autoResolve:   autoResolve,
		pending:       make(map[string]*domain.ConflictGroup),
	}
}

// LoadPending rebuilds the pending set from the durable operation log,
// typically at startup.
func (s *ConflictService) LoadPending() error {
	operations, err := s.operationRepo.ListPending()
	if err != nil {
		return err
	}

	groups := GroupOperations(operations)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = make(map[string]*domain.ConflictGroup, len(groups))
	for _, group := range groups {
		s.fillObjectName(group)
		s.pending[group.ObjectID] = group
	}
	return nil
}

// Submit records a conflicting operation and folds it into the pending set.
// A group that qualifies for auto-resolution is resolved immediately with
// keep-theirs from the perspective of the user who opened the group.
func (s *ConflictService) Submit(userID string, req *domain.SubmitOperationRequest) (*domain.Operation, *domain.ConflictGroup, error) {
	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	op := &domain.Operation{
		ID:             uuid.New().String(),
		Type:           req.Type,
		UserID:         userID,
		Timestamp:      timestamp,
		TargetObjectID: req.TargetObjectID,
		Payload:        req.Payload,
	}

	if err := s.operationRepo.Create(op); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	key := groupKey(op)
	group, ok := s.pending[key]
	if ok {
		appendOperation(group, op)
	} else {
		group = newGroup(op)
		s.fillObjectName(group)
		s.pending[key] = group
	}
	auto := s.autoResolve && ShouldAutoResolve(group)
	s.mu.Unlock()

	if auto {
		// Resolve from the perspective of the earliest writer, so
		// keep-theirs picks whichever operation came later.
		earliest := group.Operations[0]
		for _, candidate := range group.Operations[1:] {
			if candidate.Timestamp.Before(earliest.Timestamp) {
				earliest = candidate
			}
		}
		if _, err := s.Resolve(earliest.UserID, group.ObjectID, domain.ResolutionKeepTheirs); err != nil {
			return op, group, err
		}
		return op, group, nil
	}

	if s.syncService != nil {
		s.syncService.BroadcastConflictDetected(s.mapIDFor(group.ObjectID), group)
	}

	return op, group, nil
}

// PendingGroups returns a snapshot of the pending set, most recently
// touched group first.
func (s *ConflictService) PendingGroups() []*domain.ConflictGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]*domain.ConflictGroup, 0, len(s.pending))
	for _, group := range s.pending {
		groups = append(groups, group)
	}
	sortGroups(groups)
	return groups
}

// PendingGroup returns the pending group for objectID, or nil.
func (s *ConflictService) PendingGroup(objectID string) *domain.ConflictGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[objectID]
}

// Resolve applies a strategy to the pending group for objectID. The group
// leaves the pending set whatever happens; a cancelled resolution or a base
// object deleted elsewhere discards it without a write, which is a
// recoverable outcome, not an error.
func (s *ConflictService) Resolve(userID, objectID string, strategy domain.ResolutionStrategy) (*domain.MapObject, error) {
	s.mu.Lock()
	group, ok := s.pending[objectID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrConflictNotFound
	}
	delete(s.pending, objectID)
	s.mu.Unlock()

	if strategy == domain.ResolutionCancel {
		s.finishOperations(group, domain.ReviewReject)
		return nil, nil
	}

	base, err := s.objectRepo.FindByID(objectID)
	if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
		// Storage failure, not a verdict on the object: put the group
		// back so the resolution can be retried.
		s.mu.Lock()
		s.pending[objectID] = group
		s.mu.Unlock()
		return nil, err
	}
	if base == nil || base.IsDeleted {
		s.finishOperations(group, domain.ReviewReject)
		return nil, nil
	}

	resolved, err := ResolveGroup(group, strategy, base, userID)
	if err != nil {
		// Unknown strategy: put the group back for a retry with a valid one.
		s.mu.Lock()
		s.pending[objectID] = group
		s.mu.Unlock()
		return nil, err
	}

	resolved.Version = base.Version + 1
	resolved.UpdatedAt = time.Now()
	resolved.LastEditedBy = userID

	if err := s.objectRepo.Update(resolved); err != nil {
		return nil, err
	}

	s.finishOperations(group, domain.ReviewAccept)

	if s.syncService != nil {
		s.syncService.BroadcastConflictResolved(resolved.MapID, group, strategy, resolved)
	}

	return resolved, nil
}

// ReviewOperation marks a single operation settled in the durable log.
func (s *ConflictService) ReviewOperation(operationID string, decision domain.ReviewDecision) error {
	return s.operationRepo.MarkResolved(operationID, decision)
}

func (s *ConflictService) finishOperations(group *domain.ConflictGroup, decision domain.ReviewDecision) {
	for _, op := range group.Operations {
		op.Resolved = true
		op.Decision = decision
		if err := s.operationRepo.MarkResolved(op.ID, decision); err != nil {
			log.Printf("failed to mark operation %s as %s: %v", op.ID, decision, err)
		}
	}
}

func (s *ConflictService) fillObjectName(group *domain.ConflictGroup) {
	if object, err := s.objectRepo.FindByID(group.ObjectID); err == nil && object != nil {
		group.ObjectName = object.Name
		return
	}
	for _, op := range group.Operations {
		if op.Payload.Name != nil {
			group.ObjectName = *op.Payload.Name
			return
		}
	}
	group.ObjectName = group.ObjectID
}

func (s *ConflictService) mapIDFor(objectID string) string {
	if object, err := s.objectRepo.FindByID(objectID); err == nil && object != nil {
		return object.MapID
	}
	return ""
}
