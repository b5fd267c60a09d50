// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/visatrack/visatrack_backend/config"
	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/repositories"
	"github.com/visatrack/visatrack_backend/routes"
)

// CustomValidator wires go-playground/validator into Echo's Validate hook.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	client := config.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}()

	config.ConnectRedis()

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowInlineJS: false,
		AllowEval:     false,
	}))
	e.Use(middleware.NewRateLimiter().RateLimit())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "visatrack API"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	store := repositories.NewStorage(client.Database(config.DatabaseName()))

	authController := controllers.NewAuthController(store)
	adminController := controllers.NewAdminController(store)
	agentController := controllers.NewAgentController(store)
	clientController := controllers.NewClientController(store)
	documentController := controllers.NewDocumentController(store)
	activityController := controllers.NewActivityController(store)

	routes.RegisterAuthRoutes(e, authController, activityController)
	routes.RegisterAdminRoutes(e, adminController)
	routes.RegisterAgentRoutes(e, agentController)
	routes.RegisterClientRoutes(e, clientController)
	routes.RegisterSharedRoutes(e, documentController, activityController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
