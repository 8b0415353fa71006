package domain

import "time"

// ArtifactSuffix is the naming convention for generated export files:
// <ownerSessionID>_output.xlsx, one file per owner, overwritten on export.
const ArtifactSuffix = "_output.xlsx"

// ExportArtifact is a generated spreadsheet file owned by exactly one user
// session. Version alternates between 0 and 1 on each export — only its
// change signals "a new artifact is ready" to the delivery collaborator,
// which makes the signal safe against replay and free of overflow.
type ExportArtifact struct {
	OwnerID   string    `json:"owner_id"`
	DatasetID string    `json:"dataset_id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Version   uint8     `json:"version"`
}
