// Package jobs runs background attendance tasks on Asynq over Redis. The
// daily absent sweep is registered on the scheduler in the org timezone so
// "end of day" means Kathmandu's, not the host's.
package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

// Worker owns the asynq server and scheduler plus the service dependencies
// the task handlers need.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler

	attendance *attendance.Service
	users      storage.UserStore
	loc        *time.Location
	sweepCron  string
}

func NewWorker(redisAddr string, att *attendance.Service, users storage.UserStore, loc *time.Location, sweepCron string) *Worker {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	return &Worker{
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 5,
		}),
		scheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
			Location: loc,
		}),
		attendance: att,
		users:      users,
		loc:        loc,
		sweepCron:  sweepCron,
	}
}

// Start registers the handlers and the daily sweep schedule, then starts
// the worker and scheduler without blocking.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAbsentSweep, w.HandleAbsentSweepTask)

	task, err := NewAbsentSweepTask("")
	if err != nil {
		return err
	}
	if _, err := w.scheduler.Register(w.sweepCron, task); err != nil {
		return err
	}

	if err := w.scheduler.Start(); err != nil {
		return err
	}
	if err := w.server.Start(mux); err != nil {
		w.scheduler.Shutdown()
		return err
	}

	log.Println("✅ Background worker started, absent sweep at", w.sweepCron)
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// HandleAbsentSweepTask marks every member without a record for the day
// absent. Re-running is safe: existing records are never overwritten.
func (w *Worker) HandleAbsentSweepTask(ctx context.Context, t *asynq.Task) error {
	var payload AbsentSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Absent sweep payload decode error:", err)
		return err
	}

	date := payload.Date
	if date == "" {
		date = utils.DateKey(time.Now(), w.loc)
	}

	roster, err := w.users.FindByRole(ctx, models.RoleMember)
	if err != nil {
		return err
	}

	marked, err := w.attendance.MarkAbsentSweep(ctx, date, roster)
	if err != nil {
		return err
	}

	log.Printf("✅ Absent sweep for %s: %d member(s) marked", date, len(marked))
	return nil
}
