package domain

import "time"

type MapSyncRequest struct {
	MapID          string           `json:"map_id" validate:"required"`
	LastSyncTime   time.Time        `json:"last_sync_time"`
	ObjectVersions map[string]int64 `json:"object_versions"`
}

type ObjectChange struct {
	ObjectID  string          `json:"object_id"`
	Operation string          `json:"operation"`
	Version   int64           `json:"version"`
	Object    *ObjectResponse `json:"object,omitempty"`
}

type MapSyncResponse struct {
	Changes  []*ObjectChange `json:"changes"`
	SyncTime time.Time       `json:"sync_time"`
}
