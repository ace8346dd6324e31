package main

import (
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jumpinai/intake-service/internal/app"
	"github.com/jumpinai/intake-service/internal/config"
	"github.com/jumpinai/intake-service/internal/controllers"
	"github.com/jumpinai/intake-service/internal/routes"
	"github.com/jumpinai/intake-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)

	// 1) Config
	cfg := config.LoadConfig()
	defer cfg.Close()

	// 2) Core application (services, etc.)
	application := app.NewApp(cfg)
	defer application.Close()

	// 3) Controllers
	healthCtrl := controllers.NewHealthController(application.JumpService)
	jumpCtrl := controllers.NewJumpController(application.JumpService)

	// 4) Router
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Jumps, jumpCtrl.SubmitJump).Methods(http.MethodPost)
	router.HandleFunc(routes.JumpValid, jumpCtrl.ValidateJump).Methods(http.MethodPost)

	// 5) CORS
	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		// generation can take a while when OpenAI is enabled
		WriteTimeout: 2 * time.Minute,
	}

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
