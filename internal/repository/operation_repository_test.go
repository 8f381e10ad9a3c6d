package repository

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"battlemap-sync-server/internal/domain"
)

func operationDoc(id, rev string) map[string]interface{} {
	return map[string]interface{}{
		"_id":              fmt.Sprintf("operation:%s", id),
		"_rev":             rev,
		"id":               id,
		"type":             domain.OperationMove,
		"user_id":          "u1",
		"timestamp":        time.Now().UTC(),
		"target_object_id": "objA",
		"resolved":         false,
	}
}

func TestOperationRepository_MarkResolved(t *testing.T) {
	var putBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(operationDoc("op1", "1-abc"))
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Errorf("unexpected update body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "rev": "2-def"})
		}
	}))
	defer server.Close()

	repo := NewOperationRepository(server.URL)

	if err := repo.MarkResolved("op1", domain.ReviewAccept); err != nil {
		t.Fatalf("MarkResolved failed: %v", err)
	}
	if putBody["_rev"] != "1-abc" {
		t.Errorf("expected the update to carry the stored revision, got %v", putBody["_rev"])
	}
	if putBody["resolved"] != true || putBody["decision"] != string(domain.ReviewAccept) {
		t.Errorf("expected a resolved accept document, got resolved=%v decision=%v",
			putBody["resolved"], putBody["decision"])
	}
}

func TestOperationRepository_MarkResolvedBadRevisionRead(t *testing.T) {
	gets := 0
	puts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			if gets == 1 {
				json.NewEncoder(w).Encode(operationDoc("op1", "1-abc"))
				return
			}
			// Truncated response on the revision read.
			fmt.Fprint(w, `{"_id": "operation:op1", "_rev":`)
		case http.MethodPut:
			puts++
		}
	}))
	defer server.Close()

	repo := NewOperationRepository(server.URL)

	err := repo.MarkResolved("op1", domain.ReviewAccept)
	if err == nil {
		t.Fatal("expected a failed revision read to surface")
	}
	if !strings.Contains(err.Error(), "failed to read operation revision") {
		t.Errorf("unexpected error: %v", err)
	}
	if puts != 0 {
		t.Errorf("no update may be attempted without a revision, got %d", puts)
	}
}
