package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/infinity-hospitality/event-system/handlers"
	"github.com/infinity-hospitality/event-system/middleware"
	"github.com/infinity-hospitality/event-system/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Fixture      *handlers.FixtureHandler
	Registration *handlers.RegistrationHandler
	Booking      *handlers.BookingHandler
	Job          *handlers.JobHandler
	Inquiry      *handlers.InquiryHandler
	Admin        *handlers.AdminHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	AuthLimiter    *middleware.IPRateLimiter
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	optionalAuth := middleware.OptionalAuthenticate(opts.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/api/swagger/doc.json")))
		r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

		r.Route("/auth", func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r.Use(opts.AuthLimiter.Limit)
			}
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.With(authenticate).Get("/users/me", h.Auth.Me)

		r.Route("/tournaments", func(r chi.Router) {
			r.With(optionalAuth).Get("/", h.Tournament.ListHandler)
			r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
			r.Get("/{tournamentID}/fixtures", h.Tournament.ListFixturesHandler)

			r.With(authenticate).Post("/{tournamentID}/registrations", h.Registration.RegisterHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(adminOnly)

				r.Post("/", h.Tournament.CreateHandler)
				r.Put("/{tournamentID}", h.Tournament.UpdateHandler)
				r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
				r.Put("/{tournamentID}/image", h.Tournament.UploadImageHandler)
				r.Post("/{tournamentID}/complete", h.Tournament.CompleteHandler)
				r.Post("/{tournamentID}/fixtures", h.Tournament.CreateFixtureHandler)
				r.Post("/{tournamentID}/rounds", h.Tournament.SeedRoundHandler)
			})
		})

		r.With(authenticate, adminOnly).Patch("/fixtures/{fixtureID}/winner", h.Fixture.RecordWinnerHandler)

		r.Route("/registrations", func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.Registration.ListHandler)
			r.Get("/{registrationID}", h.Registration.GetHandler)
			r.With(authenticate).Delete("/{registrationID}", h.Registration.WithdrawHandler)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.Booking.ListHandler)
			r.Post("/", h.Booking.CreateHandler)
			r.Post("/{bookingID}/cancel", h.Booking.CancelHandler)
			r.With(adminOnly).Patch("/{bookingID}/status", h.Booking.UpdateStatusHandler)
		})

		r.Route("/jobs/applications", func(r chi.Router) {
			r.Post("/", h.Job.ApplyHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(adminOnly)
				r.Get("/", h.Job.ListHandler)
				r.Patch("/{applicationID}/status", h.Job.UpdateStatusHandler)
				r.Delete("/{applicationID}", h.Job.DeleteHandler)
			})
		})

		r.Post("/inquiries", h.Inquiry.SubmitHandler)

		r.With(authenticate, adminOnly).Post("/admin/restore/{itemID}", h.Admin.RestoreHandler)
	})
}
