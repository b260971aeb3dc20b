package routes

import (
	"github.com/gofiber/fiber/v2"

	"Cortex-Attendance-Backend/src/middleware"
)

func adminRoutes(router fiber.Router, d Deps) {
	// Member stats is admin-or-self, so it sits outside the admin group.
	router.Get("/members/:id/stats", d.RequireAuth, d.Admin.MemberStats)

	admin := router.Group("/admin")
	admin.Use(d.RequireAuth, middleware.RequireAdmin)

	admin.Get("/stats", d.Admin.Stats)
	admin.Get("/members", d.Admin.Members)
	admin.Post("/members/:id/approve", d.Admin.ApproveMember)
	admin.Delete("/members/:id", d.Admin.RemoveMember)
	admin.Post("/attendance/mark-absent", d.Admin.MarkAbsent)
	admin.Get("/attendance/today", d.Admin.TodayAttendance)
	admin.Get("/reports/weekly", d.Admin.WeeklyReport)
	admin.Get("/reports/monthly", d.Admin.MonthlyReport)
}
