package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

type AttendanceController struct {
	attendance *attendance.Service
	users      storage.UserStore
}

func NewAttendanceController(att *attendance.Service, users storage.UserStore) *AttendanceController {
	return &AttendanceController{attendance: att, users: users}
}

func currentUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	id, _ := c.Locals("userId").(string)
	return primitive.ObjectIDFromHex(id)
}

// CheckIn - manual check-in for the logged-in member
func (ac *AttendanceController) CheckIn(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	user, err := ac.users.FindByID(c.Context(), userID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Unknown user")
	}

	rec, err := ac.attendance.CheckIn(c.Context(), user, time.Now(), models.SourceManual, 0)
	if err != nil {
		return faceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checked in", "record": rec})
}

// CheckOut - manual check-out for the logged-in member
func (ac *AttendanceController) CheckOut(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	rec, err := ac.attendance.CheckOut(c.Context(), userID, time.Now())
	if err != nil {
		return faceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checked out", "record": rec})
}

// Status - today's state for the logged-in member
func (ac *AttendanceController) Status(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	state, rec, err := ac.attendance.StateFor(c.Context(), userID, time.Now())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to read attendance state")
	}
	return c.JSON(fiber.Map{"state": state, "record": rec})
}

// History - the member's attendance records, newest first
func (ac *AttendanceController) History(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	limit := int64(c.QueryInt("limit", 100))
	records, err := ac.attendance.History(c.Context(), userID, limit)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	return c.JSON(records)
}

// LabStatus - public endpoint telling whether check-in is open right now
func (ac *AttendanceController) LabStatus(c *fiber.Ctx) error {
	return c.JSON(ac.attendance.LabStatus(time.Now()))
}

// LabSchedule - public endpoint with the weekly opening hours
func (ac *AttendanceController) LabSchedule(c *fiber.Ctx) error {
	return c.JSON(ac.attendance.LabSchedule())
}
