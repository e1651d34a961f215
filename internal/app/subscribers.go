package app

import (
	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/pkg/calendarimport"
	"github.com/fieldbeat/fieldbeat/pkg/job"
	log "github.com/sirupsen/logrus"
)

// RegisterSubscribers attaches the application's event bus consumers.
func RegisterSubscribers(deps *Dependencies) {
	event_bus.SubscribeTyped[job.Job](deps.EventBus, event_bus.JobCreated,
		func(e event_bus.EventT[job.Job]) error {
			log.Infof("job %s scheduled for %s (builder=%s, type=%s)",
				e.Data.Id, e.Data.ScheduledDate.Format("2006-01-02"), e.Data.BuilderId, e.Data.InspectionType)
			return nil
		})

	event_bus.SubscribeTyped[calendarimport.ImportResult](deps.EventBus, event_bus.CalendarImportCompleted,
		func(e event_bus.EventT[calendarimport.ImportResult]) error {
			if len(e.Data.Errors) > 0 {
				log.Warnf("calendar import finished with %d error(s): %v", len(e.Data.Errors), e.Data.Errors)
			}
			if e.Data.EventsQueued > 0 {
				log.Infof("%d calendar event(s) are waiting for review", e.Data.EventsQueued)
			}
			return nil
		})
}
