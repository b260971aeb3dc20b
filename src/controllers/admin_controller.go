package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/services/faces"
	"Cortex-Attendance-Backend/src/services/reports"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

type AdminController struct {
	users      storage.UserStore
	attendance *attendance.Service
	faces      *faces.Service
	reports    *reports.Service
	maxMembers int
}

func NewAdminController(users storage.UserStore, att *attendance.Service, fs *faces.Service, rp *reports.Service, maxMembers int) *AdminController {
	return &AdminController{
		users:      users,
		attendance: att,
		faces:      fs,
		reports:    rp,
		maxMembers: maxMembers,
	}
}

// Stats - headline numbers for the dashboard
func (ac *AdminController) Stats(c *fiber.Ctx) error {
	stats, err := ac.reports.AdminStats(c.Context(), time.Now())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	return c.JSON(stats)
}

// Members - every member account with their all-time attendance count
func (ac *AdminController) Members(c *fiber.Ctx) error {
	summaries, err := ac.reports.MembersWithTotals(c.Context())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load members")
	}
	return c.JSON(summaries)
}

// ApproveMember - activate a pending member, subject to the member cap
func (ac *AdminController) ApproveMember(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	user, err := ac.users.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Member not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load member")
	}
	if user.IsActive {
		return c.JSON(fiber.Map{"message": "Member already approved"})
	}

	active, err := ac.users.CountByRole(c.Context(), models.RoleMember, true)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to count members")
	}
	if active >= int64(ac.maxMembers) {
		return utils.HandleError(c, fiber.StatusBadRequest, "Member limit reached")
	}

	if err := ac.users.SetActive(c.Context(), id, true); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to approve member")
	}

	return c.JSON(fiber.Map{"message": "Member approved", "userId": id.Hex()})
}

// RemoveMember - delete the account plus its face enrollment
func (ac *AdminController) RemoveMember(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	user, err := ac.users.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Member not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load member")
	}
	if user.Role == models.RoleAdmin {
		return utils.HandleError(c, fiber.StatusForbidden, "Cannot remove an admin account")
	}

	if user.FaceRegistered {
		if err := ac.faces.RemoveEnrollment(c.Context(), id); err != nil {
			return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to remove face enrollment")
		}
	}
	if err := ac.users.Delete(c.Context(), id); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to remove member")
	}

	return c.JSON(fiber.Map{"message": "Member removed", "userId": id.Hex()})
}

// MarkAbsent - run the absent sweep for today right now instead of
// waiting for the scheduled job
func (ac *AdminController) MarkAbsent(c *fiber.Ctx) error {
	roster, err := ac.users.FindByRole(c.Context(), models.RoleMember)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load members")
	}

	date := ac.attendance.Today(time.Now())
	marked, err := ac.attendance.MarkAbsentSweep(c.Context(), date, roster)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Absent sweep failed")
	}

	return c.JSON(fiber.Map{
		"message":      "Absent sweep complete",
		"date":         date,
		"markedAbsent": marked,
		"absentCount":  len(marked),
	})
}

// TodayAttendance - every record for today
func (ac *AdminController) TodayAttendance(c *fiber.Ctx) error {
	records, err := ac.attendance.ForDate(c.Context(), ac.attendance.Today(time.Now()))
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load attendance")
	}
	return c.JSON(records)
}

// WeeklyReport - current week's records bucketed by day
func (ac *AdminController) WeeklyReport(c *fiber.Ctx) error {
	report, err := ac.reports.Weekly(c.Context(), time.Now())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to build weekly report")
	}
	return c.JSON(report)
}

// MonthlyReport - headline totals for the current month
func (ac *AdminController) MonthlyReport(c *fiber.Ctx) error {
	report, err := ac.reports.Monthly(c.Context(), time.Now())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to build monthly report")
	}
	return c.JSON(report)
}

// MemberStats - per-member detail; members may only view their own
func (ac *AdminController) MemberStats(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	role, _ := c.Locals("role").(string)
	requester, _ := c.Locals("userId").(string)
	if role != models.RoleAdmin && requester != id.Hex() {
		return utils.HandleError(c, fiber.StatusForbidden, "You can only view your own stats")
	}

	stats, err := ac.reports.MemberStats(c.Context(), id, time.Now())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	return c.JSON(stats)
}
