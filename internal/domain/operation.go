package domain

import "time"

type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationMove   OperationType = "move"
	OperationDelete OperationType = "delete"
)

type ConflictType string

const (
	ConflictCreation   ConflictType = "creation"
	ConflictDeletion   ConflictType = "deletion"
	ConflictPosition   ConflictType = "position"
	ConflictProperties ConflictType = "properties"
)

type ResolutionStrategy string

const (
	ResolutionKeepMine    ResolutionStrategy = "keep-mine"
	ResolutionKeepTheirs  ResolutionStrategy = "keep-theirs"
	ResolutionMergeChrono ResolutionStrategy = "merge-chronological"
	ResolutionCancel      ResolutionStrategy = "cancel"
)

type ReviewDecision string

const (
	ReviewAccept ReviewDecision = "accept"
	ReviewReject ReviewDecision = "reject"
)

// OperationPayload carries the data an operation applies to its target.
// Move operations use the position fields; update operations shallow-merge
// Name and Properties into the object.
type OperationPayload struct {
	X          *float64       `json:"x,omitempty"`
	Y          *float64       `json:"y,omitempty"`
	Rotation   *float64       `json:"rotation,omitempty"`
	Name       *string        `json:"name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Operation is a single edit event received from a client. Immutable once
// recorded; the conflict engine only reads it.
type Operation struct {
	ID             string           `json:"id"`
	Type           OperationType    `json:"type"`
	UserID         string           `json:"user_id"`
	Timestamp      time.Time        `json:"timestamp"`
	TargetObjectID string           `json:"target_object_id"`
	Payload        OperationPayload `json:"payload"`
	Resolved       bool             `json:"resolved"`
	Decision       ReviewDecision   `json:"decision,omitempty"`
}

// ConflictGroup aggregates the pending operations that target one object.
// ConflictType is fixed by the first operation seen for the object.
type ConflictGroup struct {
	ObjectID        string       `json:"object_id"`
	ObjectName      string       `json:"object_name"`
	Operations      []*Operation `json:"operations"`
	ConflictType    ConflictType `json:"conflict_type"`
	LastModifiedAt  time.Time    `json:"last_modified_at"`
	InvolvedUserIDs []string     `json:"involved_user_ids"`
}

type SubmitOperationRequest struct {
	Type           OperationType    `json:"type" validate:"required,oneof=create update move delete"`
	TargetObjectID string           `json:"target_object_id" validate:"required"`
	Timestamp      *time.Time       `json:"timestamp"`
	Payload        OperationPayload `json:"payload"`
}

type ResolveConflictRequest struct {
	Strategy ResolutionStrategy `json:"strategy" validate:"required,oneof=keep-mine keep-theirs merge-chronological cancel"`
}

type ReviewOperationRequest struct {
	Decision ReviewDecision `json:"decision" validate:"required,oneof=accept reject"`
}
