// Package routes wires controllers onto the router: the public catalog,
// the authenticated buyer and farmer surfaces, the admin area and the
// realtime endpoints.
package routes

import (
	"net/http"
	"time"

	"github.com/binodghimire/agrihaat/app/controllers"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/auth"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/metrics"
	"github.com/binodghimire/agrihaat/pkg/middleware"
	"github.com/binodghimire/agrihaat/pkg/rbac"
	"github.com/binodghimire/agrihaat/pkg/reqid"
	"github.com/binodghimire/agrihaat/pkg/response"
	"github.com/binodghimire/agrihaat/pkg/router"
	"github.com/binodghimire/agrihaat/pkg/session"
	"github.com/binodghimire/agrihaat/pkg/ws"
)

// Deps carries everything the HTTP layer needs. The server builds it
// once at boot.
type Deps struct {
	Auth          *services.AuthService
	Catalog       *services.CatalogService
	Cart          *services.CartService
	Checkout      *services.CheckoutService
	Orders        *services.OrderService
	Reviews       *services.ReviewService
	Wishlist      *services.WishlistService
	Chat          *services.ChatService
	Notifications *services.NotificationService
	Admin         *services.AdminService
	Hub           *ws.Hub
}

func RegisterAPI(r *router.Router, d Deps) {
	authC := controllers.NewAuthController(d.Auth)
	productC := controllers.NewProductController(d.Catalog, d.Reviews)
	cartC := controllers.NewCartController(d.Cart, d.Catalog)
	orderC := controllers.NewOrderController(d.Checkout, d.Orders, d.Cart)
	reviewC := controllers.NewReviewController(d.Reviews)
	wishlistC := controllers.NewWishlistController(d.Wishlist)
	chatC := controllers.NewChatController(d.Chat)
	notifC := controllers.NewNotificationController(d.Notifications)
	adminC := controllers.NewAdminController(d.Admin)

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth. Login and register are rate limited against brute force.
	loginLimit := middleware.RateLimit(10, time.Minute)
	api.Post("/register", "auth.register", authC.Register, loginLimit)
	api.Post("/login", "auth.login", authC.Login, loginLimit)
	api.Post("/refresh", "auth.refresh", authC.Refresh, loginLimit)

	// Public catalog. OptionalAuth lets logged-in browsing carry the
	// user for cart ownership without requiring a token.
	catalog := api.Group("", middleware.OptionalAuth)
	catalog.Get("/products", "products.index", productC.Index)
	catalog.Get("/products/{id}", "products.show", productC.Show)
	catalog.Get("/products/{id}/reviews", "products.reviews", productC.Reviews)

	// Cart works for guests (session-keyed) and users alike.
	cart := api.Group("/cart", middleware.OptionalAuth)
	cart.Get("", "cart.show", cartC.Show)
	cart.Post("/items", "cart.add", cartC.Add)
	cart.Put("/items/{productID}", "cart.update", cartC.UpdateItem)
	cart.Delete("/items/{productID}", "cart.remove", cartC.Remove)
	cart.Delete("", "cart.clear", cartC.Clear)

	// Everything below needs a valid token.
	authed := api.Group("", middleware.Auth)
	authed.Get("/me", "auth.me", authC.Me)

	authed.Post("/orders", "orders.checkout", orderC.Checkout)
	authed.Get("/orders", "orders.mine", orderC.Mine)
	authed.Get("/orders/{id}", "orders.show", orderC.Show)
	authed.Patch("/orders/{id}/status", "orders.status", orderC.UpdateStatus)

	authed.Post("/reviews", "reviews.create", reviewC.Create)

	authed.Get("/wishlist", "wishlist.index", wishlistC.Index)
	authed.Post("/wishlist/{productID}", "wishlist.add", wishlistC.Add)
	authed.Delete("/wishlist/{productID}", "wishlist.remove", wishlistC.Remove)

	authed.Post("/messages", "chat.send", chatC.Send)
	authed.Get("/messages/partners", "chat.partners", chatC.Partners)
	authed.Get("/messages/{userID}", "chat.conversation", chatC.Conversation)

	authed.Get("/notifications", "notifications.index", notifC.Index)
	authed.Get("/notifications/unread", "notifications.unread", notifC.UnreadCount)
	authed.Post("/notifications/read", "notifications.read_all", notifC.MarkAllRead)
	authed.Post("/notifications/{id}/read", "notifications.read", notifC.MarkRead)
	authed.Get("/notifications/stream", "notifications.stream", notifC.Stream)

	// Farmer-only listing management.
	farmer := authed.Group("/farmer", rbac.FarmerOnly)
	farmer.Get("/products", "farmer.products", productC.Mine)
	farmer.Post("/products", "farmer.products.create", productC.Create)
	farmer.Put("/products/{id}", "farmer.products.update", productC.Update)
	farmer.Post("/products/{id}/archive", "farmer.products.archive", productC.Archive)
	farmer.Delete("/products/{id}", "farmer.products.delete", productC.Delete)
	farmer.Post("/products/{id}/image", "farmer.products.image", productC.UploadImage)
	farmer.Get("/orders", "farmer.orders", orderC.Received)

	// Admin area.
	admin := authed.Group("/admin", rbac.AdminOnly)
	admin.Get("/stats", "admin.stats", adminC.Stats)
	admin.Get("/users", "admin.users", adminC.Users)

	// Realtime. The browser websocket API cannot set headers, so the
	// token rides in the query string.
	r.Get("/ws", "ws", wsHandler(d.Hub))

	// Read-only GraphQL over the catalog.
	registerGraphQL(r, d.Catalog)
}

// wsHandler authenticates the upgrade via ?token= and registers the
// connection under the user's id for direct pushes.
func wsHandler(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ValidateToken(r.URL.Query().Get("token"))
		if err != nil {
			response.Unauthorized(w)
			return
		}
		logger.Debug("websocket connect", "user_id", claims.UserID)
		ws.Upgrade(w, r, hub, claims.UserID)
	}
}
