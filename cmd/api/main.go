package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/staffdesk/timeclock-backend-go/internal/config"
	appHTTP "github.com/staffdesk/timeclock-backend-go/internal/handler/http"
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/database"
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/jwt"
	"github.com/staffdesk/timeclock-backend-go/internal/repository/postgresql"
	timeclockService "github.com/staffdesk/timeclock-backend-go/internal/service/timeclock"
	workerService "github.com/staffdesk/timeclock-backend-go/internal/service/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	workerRepo := postgresql.NewWorkerRepository(db)
	timeRecordRepo := postgresql.NewTimeRecordRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	workerSvc := workerService.NewWorkerService(db, workerRepo)
	timeclockSvc := timeclockService.NewTimeclockService(timeRecordRepo, workerRepo)

	workerHandler := appHTTP.NewWorkerHandler(workerSvc)
	timeclockHandler := appHTTP.NewTimeclockHandler(timeclockSvc)

	router := appHTTP.NewRouter(
		JWTService,
		timeclockHandler,
		workerHandler,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
