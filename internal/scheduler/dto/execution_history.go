package dto

import (
	"time"
)

// ExecutionHistoryResponse is the DTO for API responses containing execution history details.
type ExecutionHistoryResponse struct {
	ID           uint       `json:"id"`
	JobID        uint       `json:"job_id"`
	ScheduleID   *uint      `json:"schedule_id,omitempty"`
	TriggeredBy  string     `json:"triggered_by"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Duration     int64      `json:"duration_ms"`
	Output       string     `json:"output,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
