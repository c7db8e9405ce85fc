package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"gotier/internal/config"
	applog "gotier/internal/log"
)

const maxBodySize = 1 << 20 // 1 MiB

// NewApp builds the fiber app with middleware and every /api route.
func NewApp(db *sqlx.DB, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    maxBodySize,
		UnescapePath: true,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return message(c, fiber.StatusTooManyRequests, "Request was throttled.")
		},
	}))

	deps := NewDeps(db, cfg)
	authed := RequireCustomer(deps.Auth)

	api := app.Group("/api")
	api.Post("/token", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|token"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return message(c, fiber.StatusTooManyRequests, "Too many attempts. Please try again later.")
		},
	}), deps.AuthHandler.Token)

	// Accounts
	api.Post("/customers", deps.CustomerHandler.Register)
	api.Get("/customers/me", authed, deps.CustomerHandler.Me)
	api.Put("/customers/me", authed, deps.CustomerHandler.Update)
	api.Delete("/customers/me", authed, deps.CustomerHandler.Delete)
	api.Get("/customers/me/reactions", authed, deps.CustomerHandler.Reactions)

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/best-sellers", deps.ProductHandler.BestSellers)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/products/:id/availability", deps.InventoryHandler.Check)
	api.Get("/search/:terms", deps.SearchHandler.Search)
	api.Get("/brands", deps.CategoryHandler.Brands)
	api.Get("/categories", deps.CategoryHandler.List)

	// Cart & favorites
	api.Get("/cart", authed, deps.CartHandler.View)
	api.Post("/cart/:product_id", authed, deps.CartHandler.Add)
	api.Delete("/cart/:product_id", authed, deps.CartHandler.Remove)
	api.Put("/cart/:product_id", authed, deps.CartHandler.MoveToFavorites)
	api.Get("/favorites", authed, deps.CartHandler.Favorites)
	api.Post("/favorites/:product_id", authed, deps.CartHandler.AddFavorite)
	api.Delete("/favorites/:product_ids", authed, deps.CartHandler.RemoveFavorites)
	api.Put("/favorites/:product_id", authed, deps.CartHandler.MoveToCart)

	// Orders
	api.Post("/purchases", authed, deps.OrderHandler.Place)
	api.Get("/purchases", authed, deps.OrderHandler.History)
	api.Get("/purchases/:order_item_id", authed, deps.OrderHandler.View)
	api.Put("/purchases/:order_id", authed, deps.OrderHandler.Update)
	api.Delete("/purchases/:order_id", authed, deps.OrderHandler.Cancel)

	// Reviews
	api.Get("/reviews/:product_id", deps.ReviewHandler.List)
	api.Post("/reviews/:product_id", authed, deps.ReviewHandler.Create)
	api.Put("/reviews/:product_id", authed, deps.ReviewHandler.Update)
	api.Delete("/reviews/:product_id", authed, deps.ReviewHandler.Delete)
	api.Post("/reviews/:review_id/like", authed, deps.ReviewHandler.Like)
	api.Post("/reviews/:review_id/dislike", authed, deps.ReviewHandler.Dislike)
	api.Post("/reviews/:review_id/report", authed, deps.ReviewHandler.Report)

	api.Get("/coupons", authed, deps.CouponHandler.List)

	// Admin
	admin := api.Group("/admin", authed, RequireStaff())
	admin.Put("/orders/:order_id/state", deps.AdminHandler.AdvanceOrder)
	admin.Get("/inventory", deps.AdminHandler.Inventory)
	admin.Put("/inventory/:product_id", deps.AdminHandler.Restock)
	admin.Put("/products/:id/offer-price", deps.AdminHandler.SetOfferPrice)
	admin.Put("/products/:id/default-image/:image_id", deps.AdminHandler.SetDefaultImage)
	admin.Post("/coupons", deps.AdminHandler.GrantCoupon)
	admin.Delete("/customers/:id", deps.AdminHandler.DeleteCustomer)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return message(c, fiber.StatusNotFound, "Not found.")
	})
	return app
}
