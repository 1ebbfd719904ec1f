package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "vet-clinic-backend/docs"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/platform/logger"
	"vet-clinic-backend/internal/router"
)

// @title        Vet Clinic Backend API
// @version      1.0
// @description  Backend de gestión de clínica veterinaria: usuarios, citas, clientes, mascotas, inventario y registros médicos.
// @BasePath     /
// @securityDefinitions.apikey TokenAuth
// @in   header
// @name Authorization
func main() {
	_ = godotenv.Load()

	zl, err := logger.Init(logger.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	handler, accountsSvc := router.NewRouter(router.Options{Logger: log})

	bootstrapAdmin(accountsSvc, log)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "error", err)
	}
}

// bootstrapAdmin siembra el SYSTEM_ADMIN inicial desde env si aún no existe.
// Sin ADMIN_EMAIL/ADMIN_PASSWORD no hace nada (útil en tests y dev).
func bootstrapAdmin(svc *accounts.Service, log *zap.SugaredLogger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := svc.Create(ctx, accounts.CreateInput{
		Username:  username,
		Email:     email,
		FirstName: "System",
		LastName:  "Admin",
		Password:  password,
		Rol:       string(accounts.RoleSystemAdmin),
	})
	switch {
	case err == nil:
		log.Infow("admin account created", "email", email)
	case errors.Is(err, accounts.ErrDuplicate):
		// ya existe, nada que hacer
	default:
		log.Errorw("admin bootstrap failed", "error", err)
	}
}
