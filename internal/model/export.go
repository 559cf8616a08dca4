package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidExportFormat = errors.New("model: invalid export format")
	ErrInvalidExportStatus = errors.New("model: invalid export status")
)

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatJSON, ExportFormatCSV:
		return true
	default:
		return false
	}
}

type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusComplete   ExportStatus = "complete"
	ExportStatusFailed     ExportStatus = "failed"
)

func (s ExportStatus) IsValid() bool {
	switch s {
	case ExportStatusPending, ExportStatusProcessing, ExportStatusComplete, ExportStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the job can no longer change status.
func (s ExportStatus) Terminal() bool {
	return s == ExportStatusComplete || s == ExportStatusFailed
}

// ExportJob is created pending on request and advances only via pushed
// status updates. DownloadRef is set once the job completes.
type ExportJob struct {
	ID          string       `json:"id"`
	Format      ExportFormat `json:"format"`
	Status      ExportStatus `json:"status"`
	CreatedAt   int64        `json:"createdAt"`
	DownloadRef string       `json:"downloadUrl,omitempty"`
}

func (j ExportJob) Validate() error {
	if strings.TrimSpace(j.ID) == "" {
		return errors.New("model: export job id is required")
	}
	if !j.Format.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidExportFormat, j.Format)
	}
	if !j.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidExportStatus, j.Status)
	}
	return nil
}
