package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/auth"
	"github.com/neoncare/neoncare-platform/internal/bookings"
	httpmiddleware "github.com/neoncare/neoncare-platform/internal/http/middleware"
	"github.com/neoncare/neoncare-platform/internal/notify"
	"github.com/neoncare/neoncare-platform/internal/payments"
	"github.com/neoncare/neoncare-platform/internal/tips"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	AuthHandler     *auth.Handler
	BookingsHandler *bookings.Handler
	TipsHandler     *tips.Handler
	PaymentsHandler *payments.Handler
	NotifyHandler   *notify.Handler
	MetricsHandler  http.Handler

	CORSAllowedOrigins []string
	JWTSecret          string
}

// New creates a chi router with all routes configured. The original
// serverless endpoints keep their paths under /functions/v1/ so existing
// clients keep working; the REST-style routes are the app surface.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	requireUser := httpmiddleware.RequireUser(cfg.JWTSecret)

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Route("/auth", func(r chi.Router) {
				r.Post("/signup", cfg.AuthHandler.SignUp)
				r.Post("/signin", cfg.AuthHandler.SignIn)
				r.Post("/reset-request", cfg.AuthHandler.RequestReset)
				r.Post("/reset", cfg.AuthHandler.Reset)
				r.With(requireUser).Get("/me", cfg.AuthHandler.Me)
			})
		}
		if cfg.BookingsHandler != nil {
			public.Get("/bookings/clinics", cfg.BookingsHandler.ListClinics)
			public.Get("/bookings/slots", cfg.BookingsHandler.ListSlots)
		}
		if cfg.PaymentsHandler != nil {
			public.Get("/payments/plans", cfg.PaymentsHandler.ListPlans)
			// Verification runs server-side against the gateway; the
			// payment callback page may call it without a session.
			public.Post("/functions/v1/verify-payment", cfg.PaymentsHandler.Verify)
		}
	})

	// Authenticated endpoints
	r.Group(func(private chi.Router) {
		private.Use(requireUser)
		if cfg.BookingsHandler != nil {
			private.Post("/bookings", cfg.BookingsHandler.Create)
			private.Get("/bookings", cfg.BookingsHandler.List)
		}
		if cfg.TipsHandler != nil {
			private.Post("/functions/v1/groq-chat", cfg.TipsHandler.Chat)
			private.Get("/tips", cfg.TipsHandler.History)
		}
		if cfg.PaymentsHandler != nil {
			private.Post("/functions/v1/paystack-payment", cfg.PaymentsHandler.PaystackCheckout)
			private.Post("/functions/v1/intasend-pay", cfg.PaymentsHandler.IntaSendCheckout)
		}
		if cfg.NotifyHandler != nil {
			private.Post("/functions/v1/send-booking-email", cfg.NotifyHandler.SendEmail)
		}
	})

	return r
}
