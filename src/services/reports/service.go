// Package reports aggregates attendance history for the admin dashboard.
package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

// Service computes stats in application code over the store finders, the
// way the dashboard consumes them.
type Service struct {
	users   storage.UserStore
	records storage.AttendanceStore
	loc     *time.Location

	maxAdmins  int
	maxMembers int
}

func NewService(users storage.UserStore, records storage.AttendanceStore, loc *time.Location, cfg *config.Settings) *Service {
	return &Service{
		users:      users,
		records:    records,
		loc:        loc,
		maxAdmins:  cfg.MaxAdmins,
		maxMembers: cfg.MaxMembers,
	}
}

// AdminStats is the headline dashboard block.
type AdminStats struct {
	TotalAdmins  int64 `json:"totalAdmins"`
	TotalMembers int64 `json:"totalMembers"`
	PresentToday int   `json:"presentToday"`
	MaxAdmins    int   `json:"maxAdmins"`
	MaxMembers   int   `json:"maxMembers"`
}

func (s *Service) AdminStats(ctx context.Context, now time.Time) (*AdminStats, error) {
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin, false)
	if err != nil {
		return nil, err
	}
	members, err := s.users.CountByRole(ctx, models.RoleMember, false)
	if err != nil {
		return nil, err
	}

	today, err := s.records.FindByDate(ctx, utils.DateKey(now, s.loc))
	if err != nil {
		return nil, err
	}
	present := 0
	for _, rec := range today {
		if rec.Attended() {
			present++
		}
	}

	return &AdminStats{
		TotalAdmins:  admins,
		TotalMembers: members,
		PresentToday: present,
		MaxAdmins:    s.maxAdmins,
		MaxMembers:   s.maxMembers,
	}, nil
}

// MemberSummary lists a member with their all-time attendance count.
type MemberSummary struct {
	User            models.User `json:"user"`
	TotalAttendance int         `json:"totalAttendance"`
}

func (s *Service) MembersWithTotals(ctx context.Context) ([]MemberSummary, error) {
	members, err := s.users.FindByRole(ctx, models.RoleMember)
	if err != nil {
		return nil, err
	}

	summaries := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		records, err := s.records.FindByUser(ctx, m.ID, 0)
		if err != nil {
			return nil, err
		}
		attended := 0
		for _, rec := range records {
			if rec.Attended() {
				attended++
			}
		}
		summaries = append(summaries, MemberSummary{User: m, TotalAttendance: attended})
	}
	return summaries, nil
}

// MemberStats is the per-member detail view.
type MemberStats struct {
	TotalDays            int                       `json:"totalDays"`
	PresentDays          int                       `json:"presentDays"`
	AbsentDays           int                       `json:"absentDays"`
	AttendancePercentage float64                   `json:"attendancePercentage"`
	CurrentStreak        int                       `json:"currentStreak"`
	RecentRecords        []models.AttendanceRecord `json:"recentRecords"`
}

func (s *Service) MemberStats(ctx context.Context, userID primitive.ObjectID, now time.Time) (*MemberStats, error) {
	records, err := s.records.FindByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &MemberStats{}, nil
	}

	stats := &MemberStats{TotalDays: len(records)}
	for _, rec := range records {
		if rec.Attended() {
			stats.PresentDays++
		}
		if rec.Status == models.StatusAbsent {
			stats.AbsentDays++
		}
	}
	stats.AttendancePercentage = float64(stats.PresentDays) / float64(stats.TotalDays) * 100

	// Streak: consecutive attended days counted back from today.
	today, _ := time.ParseInLocation(utils.DateLayout, utils.DateKey(now, s.loc), s.loc)
	for _, rec := range records { // already newest-first
		if !rec.Attended() {
			break
		}
		day, err := time.ParseInLocation(utils.DateLayout, rec.Date, s.loc)
		if err != nil {
			break
		}
		gap := int(today.Sub(day).Hours() / 24)
		if gap != stats.CurrentStreak {
			break
		}
		stats.CurrentStreak++
	}

	recent := records
	if len(recent) > 10 {
		recent = recent[:10]
	}
	stats.RecentRecords = recent
	return stats, nil
}

// DailyStat is one day's bucket in the weekly report.
type DailyStat struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}

// WeeklyReport groups the current week's records by date, week starting
// Monday in the org timezone.
type WeeklyReport struct {
	WeekStart    string               `json:"weekStart"`
	DailyStats   map[string]DailyStat `json:"dailyStats"`
	Dates        []string             `json:"dates"`
	TotalRecords int                  `json:"totalRecords"`
}

func (s *Service) Weekly(ctx context.Context, now time.Time) (*WeeklyReport, error) {
	local := now.In(s.loc)
	offset := (int(local.Weekday()) + 6) % 7 // days since Monday
	weekStart := local.AddDate(0, 0, -offset).Format(utils.DateLayout)

	records, err := s.records.FindSince(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		WeekStart:    weekStart,
		DailyStats:   make(map[string]DailyStat),
		TotalRecords: len(records),
	}
	for _, rec := range records {
		stat := report.DailyStats[rec.Date]
		stat.Total++
		if rec.Attended() {
			stat.Present++
		} else {
			stat.Absent++
		}
		report.DailyStats[rec.Date] = stat
	}
	for date := range report.DailyStats {
		report.Dates = append(report.Dates, date)
	}
	sort.Strings(report.Dates)
	return report, nil
}

// MonthlyReport aggregates the current month's records into headline
// totals.
type MonthlyReport struct {
	MonthStart     string  `json:"monthStart"`
	TotalRecords   int     `json:"totalRecords"`
	TotalPresent   int     `json:"totalPresent"`
	TotalAbsent    int     `json:"totalAbsent"`
	UniqueMembers  int     `json:"uniqueMembers"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// Monthly covers the month containing now, from the 1st in the org
// timezone. The attendance rate is present-over-total as a percentage,
// rounded to two decimals.
func (s *Service) Monthly(ctx context.Context, now time.Time) (*MonthlyReport, error) {
	local := now.In(s.loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc).Format(utils.DateLayout)

	records, err := s.records.FindSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		MonthStart:   monthStart,
		TotalRecords: len(records),
	}
	seen := make(map[primitive.ObjectID]struct{})
	for _, rec := range records {
		if rec.Attended() {
			report.TotalPresent++
		}
		if rec.Status == models.StatusAbsent {
			report.TotalAbsent++
		}
		seen[rec.UserID] = struct{}{}
	}
	report.UniqueMembers = len(seen)
	if report.TotalRecords > 0 {
		rate := float64(report.TotalPresent) / float64(report.TotalRecords) * 100
		report.AttendanceRate = math.Round(rate*100) / 100
	}
	return report, nil
}
