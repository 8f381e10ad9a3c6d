package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"battlemap-sync-server/internal/domain"
)

// OperationRepository is the durable operation log. Operations arrive
// already flagged as conflicting and stay in the log after resolution with
// their review decision recorded.
type OperationRepository interface {
	Create(op *domain.Operation) error
	Get(operationID string) (*domain.Operation, error)
	ListByObject(objectID string) ([]*domain.Operation, error)
	ListPending() ([]*domain.Operation, error)
	MarkResolved(operationID string, decision domain.ReviewDecision) error
	Delete(operationID string) error
}

type operationRepo struct {
	baseURL string
	client  *http.Client
}

func NewOperationRepository(baseURL string) OperationRepository {
	return &operationRepo{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *operationRepo) docID(operationID string) string {
	return fmt.Sprintf("operation:%s", operationID)
}

func (r *operationRepo) toDoc(op *domain.Operation, rev any) map[string]interface{} {
	doc := map[string]interface{}{
		"_id":              r.docID(op.ID),
		"id":               op.ID,
		"type":             op.Type,
		"user_id":          op.UserID,
		"timestamp":        op.Timestamp,
		"target_object_id": op.TargetObjectID,
		"payload":          op.Payload,
		"resolved":         op.Resolved,
		"decision":         op.Decision,
	}
	if rev != nil {
		doc["_rev"] = rev
	}
	return doc
}

func (r *operationRepo) Create(op *domain.Operation) error {
	data, err := json.Marshal(r.toDoc(op, nil))
	if err != nil {
		return err
	}

	resp, err := r.client.Post(r.baseURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to record operation: status %d", resp.StatusCode)
	}

	return nil
}

func (r *operationRepo) Get(operationID string) (*domain.Operation, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, r.docID(operationID))

	resp, err := r.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("operation not found")
	}

	var op domain.Operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, err
	}
	if op.ID == "" {
		op.ID = operationID
	}

	return &op, nil
}

func (r *operationRepo) listView(viewURL string) ([]*domain.Operation, error) {
	resp, err := r.client.Get(viewURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Rows []struct {
			Value domain.Operation `json:"value"`
		} `json:"rows"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	operations := make([]*domain.Operation, len(result.Rows))
	for i, row := range result.Rows {
		op := row.Value
		operations[i] = &op
	}

	return operations, nil
}

func (r *operationRepo) ListByObject(objectID string) ([]*domain.Operation, error) {
	viewURL := fmt.Sprintf("%s/_design/operations/_view/by_object?key=\"%s\"", r.baseURL, objectID)
	return r.listView(viewURL)
}

func (r *operationRepo) ListPending() ([]*domain.Operation, error) {
	viewURL := fmt.Sprintf("%s/_design/operations/_view/pending", r.baseURL)
	return r.listView(viewURL)
}

func (r *operationRepo) MarkResolved(operationID string, decision domain.ReviewDecision) error {
	op, err := r.Get(operationID)
	if err != nil {
		return err
	}

	op.Resolved = true
	op.Decision = decision

	url := fmt.Sprintf("%s/%s", r.baseURL, r.docID(operationID))
	respGet, err := r.client.Get(url)
	if err != nil {
		return err
	}

	var existingDoc map[string]interface{}
	if err := json.NewDecoder(respGet.Body).Decode(&existingDoc); err != nil {
		respGet.Body.Close()
		return fmt.Errorf("failed to read operation revision: %w", err)
	}
	respGet.Body.Close()

	data, err := json.Marshal(r.toDoc(op, existingDoc["_rev"]))
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to mark operation as resolved: status %d", resp.StatusCode)
	}

	return nil
}

func (r *operationRepo) Delete(operationID string) error {
	url := fmt.Sprintf("%s/%s", r.baseURL, r.docID(operationID))

	resp, err := r.client.Get(url)
	if err != nil {
		return err
	}

	var doc map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&doc)
	resp.Body.Close()

	if rev, ok := doc["_rev"].(string); ok {
		deleteURL := fmt.Sprintf("%s?rev=%s", url, rev)
		req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
		if err != nil {
			return err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to delete operation: status %d", resp.StatusCode)
		}
	}

	return nil
}
