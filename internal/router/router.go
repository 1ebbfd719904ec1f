package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	mem "vet-clinic-backend/internal/adapters/storage/memory"
	pg "vet-clinic-backend/internal/adapters/storage/postgres"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/inventory"
	"vet-clinic-backend/internal/domain/medical"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/reports"
	"vet-clinic-backend/internal/middleware"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger *zap.SugaredLogger
}

// NewRouter arma el árbol de rutas completo y devuelve también el service de
// cuentas para que el caller pueda sembrar el admin inicial.
func NewRouter(opts Options) (http.Handler, *accounts.Service) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var (
		usersRepo    accounts.Repository
		tokensRepo   accounts.TokenRepository
		citasRepo    appointments.Repository
		clientsRepo  clients.Repository
		petsRepo     pets.Repository
		itemsRepo    inventory.Repository
		recordsRepo  medical.RecordRepository
		vaccinesRepo medical.VaccineRepository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warnw("postgres unavailable, falling back to memory", "error", err)
			}
		}
	}

	if db != nil {
		usersRepo = pg.NewAccountsRepo(db)
		tokensRepo = pg.NewTokensRepo(db)
		citasRepo = pg.NewAppointmentsRepo(db)
		clientsRepo = pg.NewClientsRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		itemsRepo = pg.NewInventoryRepo(db)
		recordsRepo = pg.NewMedicalRecordsRepo(db)
		vaccinesRepo = pg.NewVaccinesRepo(db)
	} else {
		usersRepo = mem.NewAccountsRepo()
		tokensRepo = mem.NewTokensRepo()
		citasRepo = mem.NewAppointmentsRepo()
		clientsRepo = mem.NewClientsRepo()
		petsRepo = mem.NewPetsRepo()
		itemsRepo = mem.NewInventoryRepo()
		recordsRepo = mem.NewMedicalRecordsRepo()
		vaccinesRepo = mem.NewVaccinesRepo()
	}

	// Services por módulo
	accountsSvc := accounts.NewService(usersRepo, tokensRepo)
	citasSvc := appointments.NewService(citasRepo)
	clientsSvc := clients.NewService(clientsRepo)
	petsSvc := pets.NewService(petsRepo)
	itemsSvc := inventory.NewService(itemsRepo)
	medicalSvc := medical.NewService(recordsRepo, vaccinesRepo)
	reportsSvc := reports.NewService(citasSvc, petsSvc, medicalSvc)

	r.Use(middleware.AuthContext(accountsSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		accounts.RegisterRoutes(api, accountsSvc, citasSvc, medicalSvc)
		appointments.RegisterRoutes(api, citasSvc, petsSvc, accountsSvc, log)
		clients.RegisterRoutes(api, clientsSvc)
		pets.RegisterRoutes(api, petsSvc, citasSvc, medicalSvc)
		inventory.RegisterRoutes(api, itemsSvc)
		medical.RegisterRoutes(api, medicalSvc, petsSvc, accountsSvc)
		reports.RegisterRoutes(api, reportsSvc)
	})

	return r, accountsSvc
}
