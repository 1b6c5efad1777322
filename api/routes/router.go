package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fundihub/fundihub-backend/api/controllers"
	"github.com/fundihub/fundihub-backend/api/middleware"
	"github.com/fundihub/fundihub-backend/internal/auth"
	"github.com/fundihub/fundihub-backend/internal/bookings"
	"github.com/fundihub/fundihub-backend/internal/cart"
	"github.com/fundihub/fundihub-backend/internal/catalog"
	"github.com/fundihub/fundihub-backend/internal/chat"
	"github.com/fundihub/fundihub-backend/internal/media"
	"github.com/fundihub/fundihub-backend/internal/notifications"
	"github.com/fundihub/fundihub-backend/internal/orders"
	"github.com/fundihub/fundihub-backend/internal/providers"
	"github.com/fundihub/fundihub-backend/internal/rentals"
	"github.com/fundihub/fundihub-backend/internal/reviews"
	"github.com/fundihub/fundihub-backend/internal/roles"
	"github.com/fundihub/fundihub-backend/internal/support"
	"github.com/fundihub/fundihub-backend/internal/users"
	"github.com/fundihub/fundihub-backend/pkg/auth/session"
	"github.com/fundihub/fundihub-backend/pkg/config"
	"github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/logger"
	"github.com/fundihub/fundihub-backend/pkg/metrics"
	"github.com/fundihub/fundihub-backend/pkg/pubsub"
	"github.com/fundihub/fundihub-backend/pkg/redis"
	"github.com/fundihub/fundihub-backend/pkg/storage/gcs"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Users         users.Service
	Providers     providers.Service
	Roles         roles.Service
	Catalog       catalog.Service
	Bookings      bookings.Service
	Cart          cart.Service
	Orders        orders.Service
	Rentals       rentals.Service
	Reviews       reviews.Service
	Chat          chat.Service
	ChatHub       *chat.Hub
	Notifications notifications.Service
	Media         media.Service
	Support       support.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient *gcs.Client,
	pubsubClient *pubsub.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	sessionManager session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient, pubsubClient))
	})
	if registry != nil {
		r.Handle("/metrics", metrics.Handler(registry))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(svcs.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Post("/logout", controllers.Logout(svcs.Auth, logg))
			r.Post("/reset-password", controllers.ResetPassword(svcs.Auth, logg))
		})
	})

	// Public browse surface. No token required except the apply route,
	// which lives here so it is not shadowed by the browse subtree.
	r.Route("/api/v1/providers", func(r chi.Router) {
		r.Get("/", controllers.ListProviders(svcs.Providers, logg))
		r.With(middleware.Auth(cfg.JWT, sessionManager, logg), middleware.Idempotency(redisClient, logg)).
			Post("/apply", controllers.ApplyProvider(svcs.Providers, logg))
		r.Get("/{providerID}", controllers.GetProvider(svcs.Providers, logg))
		r.Get("/{providerID}/availability", controllers.ProviderAvailability(svcs.Bookings, logg))
		r.Get("/{providerID}/reviews", controllers.ListProviderReviews(svcs.Reviews, logg))
	})
	r.Get("/api/v1/services", controllers.ListServices(svcs.Catalog, logg))
	r.Get("/api/v1/services/{serviceID}", controllers.GetService(svcs.Catalog, logg))
	r.Get("/api/v1/products", controllers.ListProducts(svcs.Catalog, logg))
	r.Get("/api/v1/products/{productID}", controllers.GetProduct(svcs.Catalog, logg))
	r.Get("/api/v1/equipment", controllers.ListEquipment(svcs.Catalog, logg))
	r.Get("/api/v1/equipment/{equipmentID}", controllers.GetEquipment(svcs.Catalog, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.Me(svcs.Users, logg))
			r.Patch("/me", controllers.UpdateProfile(svcs.Users, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(svcs.Bookings, logg))
			r.Get("/", controllers.ListMyBookings(svcs.Bookings, logg))
			r.Post("/{bookingID}/status", controllers.MoveBookingStatus(svcs.Bookings, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Patch("/items/{productID}", controllers.UpdateCartItem(svcs.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/checkout", controllers.Checkout(svcs.Orders, logg))
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/{orderID}/status", controllers.MoveOrderStatus(svcs.Orders, logg))
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Post("/", controllers.CreateRental(svcs.Rentals, logg))
			r.Get("/", controllers.ListMyRentals(svcs.Rentals, logg))
			r.Get("/{rentalID}", controllers.GetRental(svcs.Rentals, logg))
			r.Post("/{rentalID}/status", controllers.MoveRentalStatus(svcs.Rentals, logg))
		})

		r.Post("/reviews", controllers.CreateReview(svcs.Reviews, logg))

		r.Route("/chat/conversations", func(r chi.Router) {
			r.Post("/", controllers.StartConversation(svcs.Chat, logg))
			r.Get("/", controllers.ListConversations(svcs.Chat, logg))
			r.Get("/{conversationID}/messages", controllers.ListMessages(svcs.Chat, logg))
			r.Post("/{conversationID}/messages", controllers.SendMessage(svcs.Chat, logg))
			r.Post("/{conversationID}/read", controllers.MarkConversationRead(svcs.Chat, logg))
			r.Get("/{conversationID}/ws", controllers.ConversationSocket(svcs.Chat, svcs.ChatHub, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/presign", controllers.PresignMediaUpload(svcs.Media, logg))
			r.Post("/{mediaID}/finalize", controllers.FinalizeMedia(svcs.Media, logg))
			r.Get("/{mediaID}", controllers.ResolveMedia(svcs.Media, logg))
		})

		if svcs.Support != nil {
			r.Post("/support/chat", controllers.SupportChat(svcs.Support, logg))
		}

		r.Route("/provider", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole([]string{
				string(enums.UserRoleServiceProvider),
				string(enums.UserRoleAdmin),
			}, logg))
			r.Use(middleware.ProviderContext(logg))

			r.Get("/me", controllers.MyProvider(svcs.Providers, logg))
			r.Put("/me", controllers.UpdateMyProvider(svcs.Providers, logg))

			r.Route("/services", func(r chi.Router) {
				r.Get("/", controllers.ListMyServices(svcs.Catalog, logg))
				r.Post("/", controllers.CreateService(svcs.Catalog, logg))
				r.Patch("/{serviceID}", controllers.UpdateService(svcs.Catalog, logg))
				r.Delete("/{serviceID}", controllers.DeleteService(svcs.Catalog, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListMyProducts(svcs.Catalog, logg))
				r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
				r.Patch("/{productID}", controllers.UpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productID}", controllers.DeleteProduct(svcs.Catalog, logg))
			})
			r.Route("/equipment", func(r chi.Router) {
				r.Get("/", controllers.ListMyEquipment(svcs.Catalog, logg))
				r.Post("/", controllers.CreateEquipment(svcs.Catalog, logg))
				r.Patch("/{equipmentID}", controllers.UpdateEquipment(svcs.Catalog, logg))
				r.Delete("/{equipmentID}", controllers.DeleteEquipment(svcs.Catalog, logg))
			})

			r.Get("/bookings", controllers.ListProviderBookings(svcs.Bookings, logg))
			r.Get("/orders", controllers.ListProviderOrders(svcs.Orders, logg))
			r.Get("/rentals", controllers.ListProviderRentals(svcs.Rentals, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/users/{userID}/roles", func(r chi.Router) {
			r.Post("/", controllers.GrantRole(svcs.Roles, logg))
			r.Delete("/", controllers.RevokeRole(svcs.Roles, logg))
		})
		r.Post("/providers/{providerID}/active", controllers.SetProviderActive(svcs.Providers, logg))
	})

	return r
}
