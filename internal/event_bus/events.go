package event_bus

// Event types published by the application.
const (
	// JobCreated carries a job.Job payload whenever an inspection job is
	// created, whether by hand or by the calendar import.
	JobCreated EventType = "job.created"

	// CalendarImportCompleted carries a calendarimport.ImportResult payload
	// after a whole import batch has been processed.
	CalendarImportCompleted EventType = "calendar.import.completed"
)
