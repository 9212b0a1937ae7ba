// Package handler implements the HTTP handlers for the CVM Planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (customer.go, cvm.go, report.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/importer"
	"github.com/visitops/cvm-planner/backend/internal/report"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// The Servicer interfaces define the business operations each handler depends
// on. Defining them here (in the consumer package) follows the Go convention:
// "accept interfaces, return concrete types". It lets handler tests inject a
// mock without touching the database or service layer.

type TerritoryServicer interface {
	List(ctx context.Context) ([]domain.Territory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerServicer interface {
	Create(ctx context.Context, c domain.Customer, territoryName string) (domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	List(ctx context.Context, search string, page domain.PaginationParams) ([]domain.CustomerRecord, error)
	Update(ctx context.Context, c domain.Customer, territoryName string) (domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StoreServicer interface {
	Create(ctx context.Context, st domain.Store) (domain.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error)
	List(ctx context.Context, customerID *uuid.UUID) ([]domain.StoreRecord, error)
	Update(ctx context.Context, st domain.Store) (domain.Store, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventServicer interface {
	Create(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)
	List(ctx context.Context, f domain.EventFilter) ([]domain.EventRecord, error)
	Update(ctx context.Context, e domain.VisitEvent) (domain.VisitEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CvmServicer interface {
	Grid(ctx context.Context, year int, territoryID *uuid.UUID) (int, []domain.CvmCustomerRow, error)
	SetMonth(ctx context.Context, in service.CvmMonthInput) (*domain.CvmEntry, error)
}

type PlannerServicer interface {
	Month(ctx context.Context, year, month int, territoryID *uuid.UUID) (domain.PlannerMonth, error)
}

type DashboardServicer interface {
	Overview(ctx context.Context) (service.DashboardOverview, error)
}

type SettingsServicer interface {
	Get(ctx context.Context) (domain.CalendarSettings, error)
	Update(ctx context.Context, in domain.CalendarSettings) (domain.CalendarSettings, error)
}

type ReportServicer interface {
	Rows(ctx context.Context, t report.Type, f domain.EventFilter) (service.ReportData, error)
	Columns(ctx context.Context, t report.Type, f domain.EventFilter) (service.ColumnsInfo, error)
	Summary(ctx context.Context, f domain.EventFilter) (report.Summary, error)
	Export(ctx context.Context, req service.ExportRequest) (report.Result, error)
}

type ImportServicer interface {
	Import(ctx context.Context, content []byte, filename string, opts importer.Options) (*importer.Summary, error)
}

// Deps bundles everything a Server needs. Slots a test does not exercise may
// be left nil.
type Deps struct {
	Territories TerritoryServicer
	Customers   CustomerServicer
	Stores      StoreServicer
	Events      EventServicer
	Cvm         CvmServicer
	Planner     PlannerServicer
	Dashboard   DashboardServicer
	Settings    SettingsServicer
	Reports     ReportServicer
	Importer    ImportServicer

	// MaxUploadBytes caps workbook uploads. Zero means the config default.
	MaxUploadBytes int64
}

// defaultMaxUploadBytes bounds workbook uploads when Deps does not say.
const defaultMaxUploadBytes = 20 << 20

// Server holds the handler dependencies. Methods are in domain-specific files
// but all operate on this struct.
type Server struct {
	deps Deps
}

// NewServer constructs the Server with all its dependencies.
func NewServer(deps Deps) *Server {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{deps: deps}
}

// Routes builds the API router. Middleware is expected to be applied by the
// caller (main.go) around the returned handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/territories", s.listTerritories)
		r.Delete("/territories/{id}", s.deleteTerritory)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.listCustomers)
			r.Post("/", s.createCustomer)
			r.Get("/{id}", s.getCustomer)
			r.Put("/{id}", s.updateCustomer)
			r.Delete("/{id}", s.deleteCustomer)
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", s.listStores)
			r.Post("/", s.createStore)
			r.Put("/{id}", s.updateStore)
			r.Delete("/{id}", s.deleteStore)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.listEvents)
			r.Post("/", s.createEvent)
			r.Put("/{id}", s.updateEvent)
			r.Delete("/{id}", s.deleteEvent)
		})

		r.Get("/cvm", s.getCvmGrid)
		r.Post("/cvm/month", s.setCvmMonth)

		r.Get("/planner", s.getPlannerMonth)
		r.Get("/dashboard", s.getDashboard)

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.updateSettings)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", s.getReportSummary)
			r.Post("/export", s.exportReport)
			r.Get("/{type}", s.getReportRows)
			r.Get("/{type}/columns", s.getReportColumns)
		})

		r.Post("/import/workbook", s.importWorkbook)
	})

	return r
}
