package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/internal/websocket"
	"battlemap-sync-server/pkg/jwt"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	jwtSecret string
	upgrader  ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		jwtSecret: jwtSecret,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}

	if token == "" {
		log.Printf("[WebSocket] Missing authorization token")
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		log.Printf("[WebSocket] Token validation failed: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	userID := claims.UserID

	mapID := r.URL.Query().Get("map_id")
	if mapID == "" {
		http.Error(w, "map_id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Failed to upgrade connection: %v", err)
		return
	}

	log.Printf("[WebSocket] User %s joined map %s", userID, mapID)

	clientID := uuid.New().String()
	client := websocket.NewClient(clientID, userID, mapID, conn, h.manager)

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

type WebSocketMessageHandler struct {
	syncService     *service.SyncService
	conflictService *service.ConflictService
}

func NewWebSocketMessageHandler(syncService *service.SyncService, conflictService *service.ConflictService) *WebSocketMessageHandler {
	return &WebSocketMessageHandler{
		syncService:     syncService,
		conflictService: conflictService,
	}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeMapSync:
		return h.handleMapSync(client, msg)

	case websocket.TypeOperation:
		return h.handleOperation(client, msg)

	case websocket.TypePing:
		return h.handlePing(client)

	default:
		log.Printf("unknown message type: %s", msg.Type)
	}

	return nil
}

func (h *WebSocketMessageHandler) handleMapSync(client *websocket.Client, msg *websocket.Message) error {
	var payload websocket.MapSyncPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return err
	}

	mapID := payload.MapID
	if mapID == "" {
		mapID = client.MapID
	}

	res, err := h.syncService.ProcessSyncRequest(&domain.MapSyncRequest{
		MapID:          mapID,
		LastSyncTime:   payload.LastSyncTime,
		ObjectVersions: payload.ObjectVersions,
	})
	if err != nil {
		return err
	}

	responseMsg, err := websocket.NewMessage(websocket.TypeMapSyncResponse, res)
	if err != nil {
		return err
	}

	responseBytes, _ := json.Marshal(responseMsg)
	client.Send <- responseBytes

	return nil
}

// handleOperation feeds an edit from the wire into the conflict log, exactly
// as the HTTP operations endpoint does, and acks with the outcome.
func (h *WebSocketMessageHandler) handleOperation(client *websocket.Client, msg *websocket.Message) error {
	var payload websocket.OperationPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return err
	}

	req := &domain.SubmitOperationRequest{
		Type:           domain.OperationType(payload.OperationType),
		TargetObjectID: payload.TargetObjectID,
		Timestamp:      payload.Timestamp,
	}
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &req.Payload); err != nil {
			return err
		}
	}

	op, _, err := h.conflictService.Submit(client.UserID, req)

	ack := &websocket.AckPayload{Success: err == nil}
	if err != nil {
		ack.Error = err.Error()
	} else {
		ack.MessageID = op.ID
	}

	ackMsg, err := websocket.NewMessage(websocket.TypeAck, ack)
	if err != nil {
		return err
	}

	ackBytes, _ := json.Marshal(ackMsg)
	client.Send <- ackBytes

	return nil
}

func (h *WebSocketMessageHandler) handlePing(client *websocket.Client) error {
	pongMsg, err := websocket.NewMessage(websocket.TypePong, nil)
	if err != nil {
		return err
	}

	pongBytes, _ := json.Marshal(pongMsg)
	client.Send <- pongBytes

	return nil
}
