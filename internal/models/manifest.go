package models

import "time"

// ManifestVersion is bumped whenever the on-disk index layout changes.
const ManifestVersion = 1

// Manifest describes a persisted index: which provider built it and with what settings.
type Manifest struct {
	Version      int       `json:"version"`
	BuildID      string    `json:"build_id"`
	Backend      string    `json:"backend"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Dimensions   int       `json:"dimensions"`
	Documents    int       `json:"documents"`
	Chunks       int       `json:"chunks"`
	ChunkSize    int       `json:"chunk_size"`
	ChunkOverlap int       `json:"chunk_overlap"`
	CreatedAt    time.Time `json:"created_at"`
}
