package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// JobType selects the executor strategy that runs a job.
type JobType string

const (
	JobTypeDailyUpdate      JobType = "daily_update"
	JobTypeWeeklyPrediction JobType = "weekly_prediction"
	JobTypeEvaluation       JobType = "evaluation"
)

// JobTypes lists the job types in pipeline order.
var JobTypes = []JobType{JobTypeDailyUpdate, JobTypeWeeklyPrediction, JobTypeEvaluation}

func (t JobType) Valid() bool {
	for _, jt := range JobTypes {
		if jt == t {
			return true
		}
	}
	return false
}

// Job is a named batch with its payload, timeout and cron schedules.
type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `json:"description"`
	Type        JobType        `gorm:"size:50;not null;uniqueIndex" json:"type"`
	Payload     datatypes.JSON `json:"payload"`
	Timeout     int            `gorm:"not null;default:3600" json:"timeout"`
	Schedules   []TaskSchedule `gorm:"foreignKey:JobID" json:"schedules"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// TaskSchedule is a cron expression attached to a job.
type TaskSchedule struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	JobID          uint         `gorm:"not null;index" json:"job_id"`
	CronExpression string       `gorm:"size:100;not null" json:"cron_expression"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution"`
	LastExecution  sql.NullTime `json:"last_execution"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskSchedule) TableName() string {
	return "task_schedules"
}

type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

const (
	TriggeredBySchedule = "schedule"
	TriggeredByManual   = "manual"
	TriggeredByCLI      = "cli"
)

// TaskExecutionHistory records one run of a job.
type TaskExecutionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobID        uint           `gorm:"not null;index" json:"job_id"`
	ScheduleID   *uint          `json:"schedule_id,omitempty"`
	TriggeredBy  string         `gorm:"size:20;not null" json:"triggered_by"`
	Status       TaskStatus     `gorm:"size:20;not null" json:"status"`
	StartedAt    time.Time      `gorm:"not null;index" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Output       sql.NullString `json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_histories"
}
