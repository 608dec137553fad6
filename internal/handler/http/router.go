package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
)

type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Store      StoreHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService))

		r.Route("/attendance", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceSelf))
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/me", h.Attendance.GetMyAttendance)
			})

			r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).
				Put("/{id}/status", h.Attendance.CorrectStatus)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionLeaveApply))
				r.Post("/", h.Leave.Apply)
				r.Get("/me", h.Leave.GetMyRequests)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionLeaveDecide))
				r.Post("/{id}/approve", h.Leave.Approve)
				r.Post("/{id}/reject", h.Leave.Reject)
			})
		})

		r.Route("/salaries/me", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionSalaryViewOwn))
			r.Get("/current", h.Payroll.GetMyCurrentSalary)
			r.Get("/history", h.Payroll.GetMySalaryHistory)
		})

		r.Route("/staff/{staffID}", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionSalaryManage))
			r.Get("/salary", h.Payroll.PreviewSalary)
			r.Post("/salary/lock", h.Payroll.LockSalary)
			r.Post("/advances", h.Payroll.RecordAdvance)
		})

		r.Route("/stores", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionStoreView)).Get("/", h.Store.List)

			r.Route("/{storeID}", func(r chi.Router) {
				r.Use(middleware.RequireStoreAccess)

				r.With(middleware.RequirePermission(user.PermissionStoreView)).Get("/", h.Store.Get)
				r.With(middleware.RequirePermission(user.PermissionStoreFreeze)).Put("/freeze", h.Store.SetFrozen)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionStoreHolidays))
					r.Put("/holidays", h.Store.ReplaceHolidays)
					r.Post("/holidays/import", h.Store.ImportHolidays)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/attendance", h.Attendance.Mark)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/attendance", h.Attendance.ListStoreDay)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/leaves", h.Leave.ListStoreRequests)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
