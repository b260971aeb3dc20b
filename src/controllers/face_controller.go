package controllers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/recognition"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/services/faces"
	"Cortex-Attendance-Backend/src/utils"
)

type FaceController struct {
	faces *faces.Service
}

func NewFaceController(s *faces.Service) *FaceController {
	return &FaceController{faces: s}
}

func readImageFile(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// RegisterFace - enroll the logged-in member's face
func (fc *FaceController) RegisterFace(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Locals("userId").(string))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	data, err := readImageFile(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "An image file is required")
	}

	if err := fc.faces.Enroll(c.Context(), userID, data); err != nil {
		return faceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Face registered successfully"})
}

// VerifyAttendance - kiosk endpoint: match the face and flip today's
// attendance state for whoever it belongs to
func (fc *FaceController) VerifyAttendance(c *fiber.Ctx) error {
	data, err := readImageFile(c)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "An image file is required")
	}

	result, err := fc.faces.VerifyAndMark(c.Context(), data, time.Now())
	if err != nil {
		return faceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Attendance marked",
		"user":       result.User,
		"transition": result.Transition,
		"record":     result.Record,
		"confidence": result.Confidence,
	})
}

// faceError maps the recognition/attendance error taxonomy onto HTTP
// statuses: bad input 400, no match 404, state conflicts 409, policy 403.
func faceError(c *fiber.Ctx, err error) error {
	var lab *attendance.OutsideLabHoursError
	switch {
	case errors.Is(err, recognition.ErrInvalidImage),
		errors.Is(err, recognition.ErrNoFaceDetected):
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, faces.ErrUnrecognizedFace):
		return utils.HandleError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNoActiveCheckIn),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		return utils.HandleError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &lab):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":     err.Error(),
			"openHour":  lab.OpenHour,
			"closeHour": lab.CloseHour,
		})
	default:
		return utils.HandleError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
