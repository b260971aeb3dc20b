package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/controllers"
	"Cortex-Attendance-Backend/src/database"
	"Cortex-Attendance-Backend/src/jobs"
	"Cortex-Attendance-Backend/src/middleware"
	"Cortex-Attendance-Backend/src/recognition"
	"Cortex-Attendance-Backend/src/routes"
	"Cortex-Attendance-Backend/src/services"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/services/faces"
	"Cortex-Attendance-Backend/src/services/reports"
	"Cortex-Attendance-Backend/src/services/seeder"
	"Cortex-Attendance-Backend/src/storage/diskblob"
	"Cortex-Attendance-Backend/src/storage/mongostore"
	"Cortex-Attendance-Backend/src/utils"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("❌ Error connecting to the database: %v", err)
	}
	defer db.Close(context.Background())

	store := mongostore.New(db.Mongo())
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Error creating indexes: %v", err)
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Fatalf("❌ Error connecting to Redis: %v", err)
	}

	blobs, err := diskblob.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("❌ Error preparing upload directory: %v", err)
	}

	loc := utils.LoadOrgLocation(cfg.Timezone)

	extractor, err := recognition.NewDlibExtractor(cfg.FaceModelsDir)
	if err != nil {
		log.Fatalf("❌ Error loading face models: %v", err)
	}
	defer extractor.Close()
	matcher := recognition.NewMatcher(cfg.FaceTolerance)

	attendanceService := attendance.NewService(store.Attendance, loc, cfg)
	faceService := faces.NewService(extractor, matcher, store.Gallery, store.Users, blobs, attendanceService)
	authService := services.NewAuthService(store.Users, utils.NewTokenStore(redisClient), cfg)
	reportService := reports.NewService(store.Users, store.Attendance, loc, cfg)

	if err := seeder.SeedAdmin(ctx, store.Users, cfg); err != nil {
		log.Fatalf("❌ Error seeding admin user: %v", err)
	}

	// Background worker needs Redis; without it the absent sweep is only
	// available through the admin endpoint.
	if cfg.RedisURI != "" {
		worker := jobs.NewWorker(cfg.RedisURI, attendanceService, store.Users, loc, cfg.SweepCron)
		if err := worker.Start(); err != nil {
			log.Fatalf("❌ Error starting background worker: %v", err)
		}
		defer worker.Shutdown()
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // face images
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	routes.InitRoutes(app, routes.Deps{
		Auth:        controllers.NewAuthController(authService),
		Faces:       controllers.NewFaceController(faceService),
		Attendance:  controllers.NewAttendanceController(attendanceService, store.Users),
		Admin:       controllers.NewAdminController(store.Users, attendanceService, faceService, reportService, cfg.MaxMembers),
		RequireAuth: middleware.AuthJWT(cfg.JWTSecret),
	})

	log.Println("Server is running on port " + cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
