package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrilinkmw/agrilink-backend/api/controllers"
	webhookcontrollers "github.com/agrilinkmw/agrilink-backend/api/controllers/webhooks"
	"github.com/agrilinkmw/agrilink-backend/api/middleware"
	adminsvc "github.com/agrilinkmw/agrilink-backend/internal/admin"
	authsvc "github.com/agrilinkmw/agrilink-backend/internal/auth"
	cropssvc "github.com/agrilinkmw/agrilink-backend/internal/crops"
	demandssvc "github.com/agrilinkmw/agrilink-backend/internal/demands"
	messagessvc "github.com/agrilinkmw/agrilink-backend/internal/messages"
	orderssvc "github.com/agrilinkmw/agrilink-backend/internal/orders"
	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	reviewssvc "github.com/agrilinkmw/agrilink-backend/internal/reviews"
	userssvc "github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/auth/session"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	pkgredis "github.com/agrilinkmw/agrilink-backend/pkg/redis"
	"github.com/agrilinkmw/agrilink-backend/pkg/storage"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    pkgredis.Pinger
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth     authsvc.Service
	Users    userssvc.Service
	Crops    cropssvc.Service
	Demands  demandssvc.Service
	Orders   orderssvc.Service
	Reviews  reviewssvc.Service
	Messages messagessvc.Service
	Admin    adminsvc.Service
	Webhooks paychangu.Service
	Media    storage.Store
}

// NewRouter assembles the HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/health", controllers.Health(d.DB, d.Redis, logg))
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(d.Auth, logg))
			r.Post("/login", controllers.Login(d.Auth, logg))
			r.Post("/logout", controllers.Logout(d.Auth, cfg.JWT, logg))
			r.Post("/password-reset/request", controllers.RequestPasswordReset(d.Auth, logg))
			r.Post("/password-reset/confirm", controllers.ResetPassword(d.Auth, logg))
		})

		// Public marketplace browsing.
		r.Get("/crops", controllers.BrowseCrops(d.Crops, logg))
		r.Get("/crops/{cropID}", controllers.GetCrop(d.Crops, logg))
		r.Get("/demands", controllers.BrowseDemands(d.Demands, logg))
		r.Get("/demands/{demandID}", controllers.GetDemand(d.Demands, logg))
		r.Get("/users/{userID}/reviews", controllers.GetUserReviews(d.Reviews, logg))
		r.Post("/messages/contact", controllers.SendContactMessage(d.Messages, logg))
		r.Get("/media/{fileName}", controllers.ServeMedia(d.Media, logg))

		// Provider-facing payment endpoints.
		r.Post("/payments/webhook", webhookcontrollers.PayChanguWebhook(d.Webhooks, cfg.PayChangu, logg))
		r.Get("/payments/confirmation", controllers.PaymentConfirmation(cfg.PayChangu, logg))

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", controllers.GetMe(d.Users, logg))
				r.Put("/me", controllers.UpdateMe(d.Users, logg))
				r.Get("/{userID}", controllers.GetUserProfile(d.Users, logg))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", controllers.SendMessage(d.Messages, logg))
				r.Get("/inbox", controllers.Inbox(d.Messages, logg))
				r.Get("/sent", controllers.SentMessages(d.Messages, logg))
			})

			r.Get("/orders/{orderID}", controllers.GetOrder(d.Orders, logg))
			r.With(middleware.RequireAnyRole(logg, enums.UserRoleFarmer, enums.UserRoleBuyer)).
				Post("/media", controllers.UploadMedia(d.Media, logg))

			// Farmer-only operations.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleFarmer, logg))
				r.Post("/crops", controllers.CreateCrop(d.Crops, logg))
				r.Get("/crops/mine", controllers.ListOwnCrops(d.Crops, logg))
				r.Put("/crops/{cropID}", controllers.UpdateCrop(d.Crops, logg))
				r.Delete("/crops/{cropID}", controllers.DeleteCrop(d.Crops, logg))
				r.Get("/sales", controllers.ListSales(d.Orders, logg))
				r.Put("/orders/{orderID}/fulfillment", controllers.SetFulfillmentStatus(d.Orders, logg))
			})

			// Buyer-only operations.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleBuyer, logg))
				r.Post("/demands", controllers.CreateDemand(d.Demands, logg))
				r.Get("/demands/mine", controllers.ListOwnDemands(d.Demands, logg))
				r.Put("/demands/{demandID}", controllers.UpdateDemand(d.Demands, logg))
				r.Delete("/demands/{demandID}", controllers.DeleteDemand(d.Demands, logg))
				r.Post("/crops/{cropID}/purchase", controllers.Purchase(d.Orders, logg))
				r.Get("/orders", controllers.ListOwnOrders(d.Orders, logg))
				r.Post("/reviews", controllers.SubmitReview(d.Reviews, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Get("/report", controllers.AdminReport(d.Admin, logg))
		r.Get("/orders", controllers.AdminListOrders(d.Admin, logg))
		r.Get("/users", controllers.AdminListUsers(d.Admin, logg))
		r.Delete("/users/{userID}", controllers.AdminDeleteUser(d.Admin, logg))
		r.Delete("/media/{fileName}", controllers.RemoveMedia(d.Media, logg))
	})

	return r
}
