package handlers

import (
	"github.com/jmoiron/sqlx"

	"gotier/internal/auth"
	"gotier/internal/config"
	"gotier/internal/repos"
	"gotier/internal/services"
	"gotier/internal/textcheck"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	ReviewHandler    *ReviewHandler
	CouponHandler    *CouponHandler
	CustomerHandler  *CustomerHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	txm := repos.NewTxManager(db)
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	favRepo := repos.NewFavRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	rankRepo := repos.NewRankingRepo(db)

	lim := cfg.Limits
	authSvc := services.NewAuthService(custRepo, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	rankSvc := services.NewRankingService(rankRepo, prodRepo, lim.BestSellers)
	catalogSvc := services.NewCatalogService(txm, prodRepo, rankSvc)
	invSvc := services.NewInventoryService(invRepo)
	cartSvc := services.NewCartService(txm, prodRepo, cartRepo, favRepo, lim.CartCap, lim.FavCap)
	couponSvc := services.NewCouponService(couponRepo, custRepo)
	orderSvc := services.NewOrderService(txm, orderRepo)
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Tx:       txm,
		Orders:   orderRepo,
		Products: prodRepo,
		Coupons:  couponRepo,
		Cart:     cartRepo,
		Limits:   lim,
	})
	text := textcheck.New()
	customerSvc := services.NewCustomerService(services.CustomerDeps{
		Tx:        txm,
		Customers: custRepo,
		Reviews:   reviewRepo,
		Text:      text,
		DailyCap:  lim.DailySignupCap,
	})
	reviewSvc := services.NewReviewService(services.ReviewDeps{
		Tx:       txm,
		Reviews:  reviewRepo,
		Products: prodRepo,
		Text:     text,
		DailyCap: lim.DailyReviewCap,
	})

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Ranking: rankSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc, Catalog: catalogSvc},
		OrderHandler:     &OrderHandler{Checkout: checkoutSvc, Orders: orderSvc},
		ReviewHandler:    &ReviewHandler{Reviews: reviewSvc},
		CouponHandler:    &CouponHandler{Coupons: couponSvc},
		CustomerHandler:  &CustomerHandler{Customers: customerSvc},
		AdminHandler: &AdminHandler{
			Orders:   orderSvc,
			Inv:      invSvc,
			Catalog:  catalogSvc,
			Coupons:  couponSvc,
			Accounts: customerSvc,
		},
	}
}
