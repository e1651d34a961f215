package job

import "time"

// Job is a scheduled inspection at a building site. Jobs created from the
// calendar import carry the source event id in GoogleEventId; that field is the
// deduplication key, so at most one job exists per calendar event.
type Job struct {
	Id             string
	GoogleEventId  string
	BuilderId      string
	InspectionType string
	Address        string
	Status         Status
	ScheduledDate  time.Time
	AllDay         bool
	CreatedBy      string
	Notes          string
	CreatedAt      time.Time
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)
