package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeMapSync          MessageType = "map_sync"
	TypeMapSyncResponse  MessageType = "map_sync_response"
	TypeOperation        MessageType = "operation"
	TypeObjectUpdate     MessageType = "object_update"
	TypeObjectDelete     MessageType = "object_delete"
	TypeConflictDetected MessageType = "conflict_detected"
	TypeConflictResolved MessageType = "conflict_resolved"
	TypeAck              MessageType = "ack"
	TypePing             MessageType = "ping"
	TypePong             MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type MapSyncPayload struct {
	MapID          string           `json:"map_id"`
	LastSyncTime   time.Time        `json:"last_sync_time"`
	ObjectVersions map[string]int64 `json:"object_versions"`
}

type OperationPayload struct {
	OperationType  string          `json:"operation_type"`
	TargetObjectID string          `json:"target_object_id"`
	Timestamp      *time.Time      `json:"timestamp,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}

type ObjectUpdatePayload struct {
	ObjectID   string         `json:"object_id"`
	MapID      string         `json:"map_id"`
	Version    int64          `json:"version"`
	Name       string         `json:"name"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Rotation   float64        `json:"rotation"`
	Properties map[string]any `json:"properties,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
	EditedBy   string         `json:"edited_by"`
}

type ObjectDeletePayload struct {
	ObjectID string `json:"object_id"`
	MapID    string `json:"map_id"`
	Version  int64  `json:"version"`
	UserID   string `json:"user_id"`
}

type ConflictDetectedPayload struct {
	ObjectID        string    `json:"object_id"`
	ObjectName      string    `json:"object_name"`
	ConflictType    string    `json:"conflict_type"`
	OperationCount  int       `json:"operation_count"`
	InvolvedUserIDs []string  `json:"involved_user_ids"`
	LastModifiedAt  time.Time `json:"last_modified_at"`
}

type ConflictResolvedPayload struct {
	ObjectID string               `json:"object_id"`
	Strategy string               `json:"strategy"`
	Object   *ObjectUpdatePayload `json:"object,omitempty"`
}

type AckPayload struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
