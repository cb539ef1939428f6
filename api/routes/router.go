package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/granizoapp/granizo-backend/api/controllers"
	"github.com/granizoapp/granizo-backend/api/middleware"
	"github.com/granizoapp/granizo-backend/internal/cart"
	checkoutsvc "github.com/granizoapp/granizo-backend/internal/checkout"
	inventorysvc "github.com/granizoapp/granizo-backend/internal/inventory"
	ordersvc "github.com/granizoapp/granizo-backend/internal/orders"
	productsvc "github.com/granizoapp/granizo-backend/internal/products"
	storesvc "github.com/granizoapp/granizo-backend/internal/stores"
	"github.com/granizoapp/granizo-backend/pkg/config"
	"github.com/granizoapp/granizo-backend/pkg/db"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	pkgredis "github.com/granizoapp/granizo-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	StoreID  uuid.UUID
	Registry prometheus.Gatherer

	Carts     *cart.Manager
	Checkout  *checkoutsvc.Service
	Orders    ordersvc.Service
	Products  productsvc.Service
	Inventory inventorysvc.Service
	Stores    storesvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger pkgredis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.CatalogList(deps.Carts.Catalog()))

		var idempotencyStore pkgredis.IdempotencyStore
		var rateLimiter pkgredis.RateLimiterStore
		if deps.Redis != nil {
			idempotencyStore = deps.Redis
			rateLimiter = deps.Redis
		}

		r.Route("/pos", func(r chi.Router) {
			r.Use(middleware.TerminalContext(logg))
			r.Use(middleware.TerminalRateLimit(rateLimiter, cfg.POS.TerminalRateLimit, cfg.POS.TerminalRateWindow, logg))
			r.Use(middleware.Idempotency(idempotencyStore, cfg.POS.CheckoutIdempotencyTTL, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.PosCartFetch(deps.Carts, logg))
				r.Delete("/", controllers.PosCartClear(deps.Carts, logg))
				r.Post("/items", controllers.PosCartAddItem(deps.Carts, logg))
				r.Patch("/items/{lineId}", controllers.PosCartUpdateQuantity(deps.Carts, logg))
				r.Delete("/items/{lineId}", controllers.PosCartRemoveItem(deps.Carts, logg))
				r.Put("/discount", controllers.PosCartSetDiscount(deps.Carts, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.PosCheckoutState(deps.Checkout, logg))
				r.Post("/open", controllers.PosCheckoutOpen(deps.Checkout, logg))
				r.Post("/cancel", controllers.PosCheckoutCancel(deps.Checkout, logg))
				r.Post("/confirm", controllers.PosCheckoutConfirm(deps.Checkout, logg))
				r.Post("/close", controllers.PosCheckoutClose(deps.Checkout, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, deps.StoreID, logg))
			r.Get("/{orderId}", controllers.OrdersDetail(deps.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.Idempotency(idempotencyStore, cfg.POS.CheckoutIdempotencyTTL, logg))
			r.Get("/", controllers.InventoryStock(deps.Inventory, deps.StoreID, logg))
			r.Get("/low", controllers.InventoryLowStock(deps.Inventory, deps.StoreID, logg))
			r.Get("/movements", controllers.InventoryMovements(deps.Inventory, deps.StoreID, logg))
			r.Post("/adjust", controllers.InventoryAdjust(deps.Inventory, deps.StoreID, logg))
			r.Put("/min-qty", controllers.InventorySetMinQty(deps.Inventory, deps.StoreID, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(deps.Stores, logg))
			r.Post("/", controllers.StoreCreate(deps.Stores, logg))
			r.Get("/{storeId}", controllers.StoreDetail(deps.Stores, logg))
			r.Patch("/{storeId}", controllers.StoreUpdate(deps.Stores, logg))
			r.Put("/{storeId}/config", controllers.StoreUpdateConfig(deps.Stores, logg))
		})
	})

	return r
}
