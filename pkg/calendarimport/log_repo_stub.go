package calendarimport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubLogRepo is an in-memory LogRepo implementation for tests.
type StubLogRepo struct {
	mu       sync.RWMutex
	logs     []ImportLog
	storeErr error
}

func NewStubLogRepo() *StubLogRepo {
	return &StubLogRepo{}
}

// FailStore makes StoreLog return err, to exercise the log-write error channel.
func (r *StubLogRepo) FailStore(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErr = err
}

func (r *StubLogRepo) StoreLog(ctx context.Context, importLog ImportLog) (ImportLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return ImportLog{}, r.storeErr
	}
	if importLog.Id == "" {
		importLog.Id = uuid.New().String()
	}
	if importLog.CreatedAt.IsZero() {
		importLog.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, importLog)
	return importLog, nil
}

func (r *StubLogRepo) GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := make([]ImportLog, 0)
	for i := len(r.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		if r.logs[i].CalendarId == calendarId {
			logs = append(logs, r.logs[i])
		}
	}
	return logs, nil
}

// AllLogs returns every stored log, for test assertions.
func (r *StubLogRepo) AllLogs() []ImportLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := make([]ImportLog, len(r.logs))
	copy(logs, r.logs)
	return logs
}
