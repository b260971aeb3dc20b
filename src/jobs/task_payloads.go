package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeAbsentSweep = "attendance:absent_sweep"

// AbsentSweepPayload names the day to sweep. An empty date means "today"
// at handling time, so the scheduled task never carries a stale date.
type AbsentSweepPayload struct {
	Date string `json:"date"`
}

func NewAbsentSweepTask(date string) (*asynq.Task, error) {
	payload, err := json.Marshal(AbsentSweepPayload{Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAbsentSweep, payload), nil
}
