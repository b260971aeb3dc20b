// Package attendance drives the per-member per-day state machine:
// NOT_CHECKED_IN -> CHECKED_IN -> CHECKED_OUT, bucketed by the org
// timezone's calendar day.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

var (
	ErrAlreadyCheckedIn      = errors.New("attendance already recorded for today")
	ErrNoActiveCheckIn       = errors.New("no active check-in for today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is before check-in time")
)

// OutsideLabHoursError carries the configured window so callers can tell
// the member when the lab opens.
type OutsideLabHoursError struct {
	Hour      int
	OpenHour  int
	CloseHour int
}

func (e *OutsideLabHoursError) Error() string {
	return fmt.Sprintf("check-in not allowed at %02d:00, lab hours are %02d:00-%02d:00",
		e.Hour, e.OpenHour, e.CloseHour)
}

// State is where a member sits in today's state machine.
type State string

const (
	StateNotCheckedIn State = "NOT_CHECKED_IN"
	StateCheckedIn    State = "CHECKED_IN"
	StateCheckedOut   State = "CHECKED_OUT"
)

// Service implements the check-in/check-out transitions on top of an
// AttendanceStore. The store's conditional writes are the only
// serialization points; the service itself holds no mutable state.
type Service struct {
	records storage.AttendanceStore
	loc     *time.Location

	openHour        int
	closeHour       int
	lateCutoffHour  int
	enforceLabHours bool
}

func NewService(records storage.AttendanceStore, loc *time.Location, cfg *config.Settings) *Service {
	return &Service{
		records:         records,
		loc:             loc,
		openHour:        cfg.LabOpenHour,
		closeHour:       cfg.LabCloseHour,
		lateCutoffHour:  cfg.LateCutoffHour,
		enforceLabHours: cfg.EnforceLabHours,
	}
}

// Today returns the org-local calendar date for the given instant.
func (s *Service) Today(at time.Time) string {
	return utils.DateKey(at, s.loc)
}

// CheckIn records the member's arrival. Valid only when no record exists
// yet for (member, today); the store's insert-if-absent makes sure exactly
// one of two concurrent check-ins wins.
func (s *Service) CheckIn(ctx context.Context, user *models.User, at time.Time, source models.AttendanceSource, confidence float64) (*models.AttendanceRecord, error) {
	local := at.In(s.loc)

	if s.enforceLabHours {
		if h := local.Hour(); h < s.openHour || h >= s.closeHour {
			return nil, &OutsideLabHoursError{Hour: h, OpenHour: s.openHour, CloseHour: s.closeHour}
		}
	}

	status := models.StatusCheckedIn
	if local.Hour() >= s.lateCutoffHour {
		status = models.StatusLate
	}

	checkIn := at
	rec := &models.AttendanceRecord{
		UserID:     user.ID,
		UserName:   user.Name,
		Date:       local.Format(utils.DateLayout),
		CheckIn:    &checkIn,
		Status:     status,
		Source:     source,
		Confidence: confidence,
	}

	if err := s.records.InsertIfAbsent(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicateRecord) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return rec, nil
}

// CheckOut closes today's open record. No lab-hours gate: leaving is
// always allowed.
func (s *Service) CheckOut(ctx context.Context, userID primitive.ObjectID, at time.Time) (*models.AttendanceRecord, error) {
	date := s.Today(at)

	existing, err := s.records.FindByUserDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoActiveCheckIn
		}
		return nil, err
	}
	if !existing.Open() {
		return nil, ErrNoActiveCheckIn
	}
	if at.Before(*existing.CheckIn) {
		return nil, ErrCheckOutBeforeCheckIn
	}

	rec, err := s.records.CloseOpenRecord(ctx, userID, date, at, models.StatusCheckedOut)
	if err != nil {
		if errors.Is(err, storage.ErrNoOpenRecord) {
			return nil, ErrNoActiveCheckIn
		}
		return nil, err
	}
	return rec, nil
}

// StateFor reports the member's position in today's state machine. Any
// non-open record (checked out, or swept absent) is terminal for the day.
func (s *Service) StateFor(ctx context.Context, userID primitive.ObjectID, at time.Time) (State, *models.AttendanceRecord, error) {
	rec, err := s.records.FindByUserDate(ctx, userID, s.Today(at))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return StateNotCheckedIn, nil, nil
		}
		return "", nil, err
	}
	if rec.Open() {
		return StateCheckedIn, rec, nil
	}
	return StateCheckedOut, rec, nil
}

// MarkAbsentSweep creates an absent record for every roster member without
// a record for the given date. Existing records are never touched, so the
// sweep is idempotent. Returns the names of the members it marked.
func (s *Service) MarkAbsentSweep(ctx context.Context, date string, roster []models.User) ([]string, error) {
	var marked []string
	for _, u := range roster {
		rec := &models.AttendanceRecord{
			UserID:   u.ID,
			UserName: u.Name,
			Date:     date,
			Status:   models.StatusAbsent,
			Source:   models.SourceAuto,
		}
		if err := s.records.InsertIfAbsent(ctx, rec); err != nil {
			if errors.Is(err, storage.ErrDuplicateRecord) {
				continue
			}
			return marked, err
		}
		marked = append(marked, u.Name)
	}
	return marked, nil
}

// History returns the member's records, newest first.
func (s *Service) History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	return s.records.FindByUser(ctx, userID, limit)
}

// ForDate returns every record for one calendar day.
func (s *Service) ForDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	return s.records.FindByDate(ctx, date)
}

// LabStatus describes the check-in window at the given instant.
type LabStatus struct {
	Status      string `json:"status"`
	IsOpen      bool   `json:"isOpen"`
	OpenHours   string `json:"openHours"`
	CurrentTime string `json:"currentTime"`
	Timezone    string `json:"timezone"`
}

func (s *Service) LabStatus(at time.Time) LabStatus {
	local := at.In(s.loc)
	h := local.Hour()
	isOpen := h >= s.openHour && h < s.closeHour

	status := "CLOSED"
	if isOpen {
		status = "OPEN"
	}
	return LabStatus{
		Status:      status,
		IsOpen:      isOpen,
		OpenHours:   fmt.Sprintf("%02d:00 - %02d:00", s.openHour, s.closeHour),
		CurrentTime: local.Format("03:04 PM"),
		Timezone:    s.loc.String(),
	}
}

// DaySchedule is one weekday's entry in the weekly lab schedule.
type DaySchedule struct {
	Status   string `json:"status"`
	Hours    string `json:"hours"`
	Timezone string `json:"timezone"`
}

// LabSchedule returns the weekly schedule. The lab runs the same window
// every day of the week.
func (s *Service) LabSchedule() map[string]DaySchedule {
	entry := DaySchedule{
		Status:   "OPEN",
		Hours:    fmt.Sprintf("%02d:00 - %02d:00", s.openHour, s.closeHour),
		Timezone: s.loc.String(),
	}

	schedule := make(map[string]DaySchedule, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		schedule[d.String()] = entry
	}
	return schedule
}
