package routes

import (
	"github.com/gofiber/fiber/v2"
)

func attendanceRoutes(router fiber.Router, d Deps) {
	att := router.Group("/attendance")

	att.Get("/lab-status", d.Attendance.LabStatus)
	att.Get("/lab-schedule", d.Attendance.LabSchedule)

	att.Use(d.RequireAuth)
	att.Post("/check-in", d.Attendance.CheckIn)
	att.Post("/check-out", d.Attendance.CheckOut)
	att.Get("/status", d.Attendance.Status)
	att.Get("/history", d.Attendance.History)
}
