package main

import (
	"log"

	"trainhub/config"
	"trainhub/database"
	articleRoutes "trainhub/routers/articleRoutes"
	authRoutes "trainhub/routers/authRoutes"
	certificateRoutes "trainhub/routers/certificateRoutes"
	enrollmentRoutes "trainhub/routers/enrollmentRoutes"
	registrationRoutes "trainhub/routers/registrationRoutes"
	trainingRoutes "trainhub/routers/trainingRoutes"
	uploadRoutes "trainhub/routers/uploadRoutes"
	userCertificateRoutes "trainhub/routers/userCertificateRoutes"
	userRoutes "trainhub/routers/userRoutes"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files from the public folder
	app.Static("/uploads", "./public/uploads")

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	trainingRoutes.SetupTrainingRoutes(app)
	registrationRoutes.SetupRegistrationRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	userCertificateRoutes.SetupUserCertificateRoutes(app)
	articleRoutes.SetupArticleRoutes(app)
	uploadRoutes.SetupUploadRoutes(app)

	utils.InitializeRegistrationScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
