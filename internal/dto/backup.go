package dto

import (
	"sort"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// BackupParams defines query parameters for downloading a backup.
type BackupParams struct {
	Format string `form:"format" binding:"omitempty,oneof=ledgerbook-json ledgerbook-json-gzip ledgerbook-encrypted"`
}

// BackupFormatResponse describes one supported backup format.
type BackupFormatResponse struct {
	Format      domain.BackupFormat `json:"format"`
	Extension   string              `json:"extension"`
	MimeType    string              `json:"mimeType"`
	Description string              `json:"description"`
	Version     string              `json:"version"`
}

// ToBackupFormatsResponse lists the format registry in a stable order.
func ToBackupFormatsResponse(formats map[domain.BackupFormat]domain.FormatInfo) []BackupFormatResponse {
	res := make([]BackupFormatResponse, 0, len(formats))
	for format, info := range formats {
		res = append(res, BackupFormatResponse{
			Format:      format,
			Extension:   info.Extension,
			MimeType:    info.MimeType,
			Description: info.Description,
			Version:     info.Version,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Format < res[j].Format })
	return res
}

// StageRestoreResponse confirms a staged restore.
type StageRestoreResponse struct {
	Staged   bool          `json:"staged"`
	Target   *domain.Scope `json:"target,omitempty"`
	StagedAt time.Time     `json:"stagedAt"`
}

// PendingRestoreResponse reports whether a restore is staged for the next start.
type PendingRestoreResponse struct {
	Pending bool `json:"pending"`
}
