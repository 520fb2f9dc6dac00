package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grubline/order-svc/internal/service/models/cart"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/grubline/order-svc/internal/service/models/product"
	"github.com/grubline/order-svc/pkg/http/middleware/trace"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type orderService interface {
	Submit(ctx context.Context, userID, addressID int64, clientAmount decimal.Decimal) (*order.SubmitResult, error)
	ConfirmPayment(ctx context.Context, orderNumber string) error
	Confirm(ctx context.Context, orderID int64) error
	StartDelivery(ctx context.Context, orderID int64) error
	Complete(ctx context.Context, orderID int64) error
	Cancel(ctx context.Context, orderID int64, reason string) error
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
}

type cartService interface {
	Add(ctx context.Context, userID int64, sel cart.Selector) error
	Sub(ctx context.Context, userID int64, sel cart.Selector) error
	List(ctx context.Context, userID int64) ([]cart.Line, error)
	Clean(ctx context.Context, userID int64) error
}

type catalogService interface {
	ListDishesByCategory(ctx context.Context, categoryID int64) ([]product.Product, error)
	SaveDish(ctx context.Context, p *product.Product) error
	UpdateDish(ctx context.Context, p *product.Product) error
	DeleteDishes(ctx context.Context, ids []int64) error
	SetDishStatus(ctx context.Context, id int64, status int32) error
	SaveSetmeal(ctx context.Context, p *product.Product) error
	UpdateSetmeal(ctx context.Context, p *product.Product) error
	DeleteSetmeals(ctx context.Context, ids []int64) error
	SetSetmealStatus(ctx context.Context, id int64, status int32) error
}

type shopService interface {
	Status(ctx context.Context) (int32, error)
	SetStatus(ctx context.Context, status int32) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	orders  orderService
	carts   cartService
	catalog catalogService
	shop    shopService
}

func NewHTTPTransport(orders orderService, carts cartService, catalog catalogService, shop shopService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		orders:  orders,
		carts:   carts,
		catalog: catalog,
		shop:    shop,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/order/submit", h.submitOrder)
			r.Put("/order/payment", h.confirmPayment)
			r.Post("/order/cancel", h.cancelOrder)

			r.Post("/cart/add", h.addToCart)
			r.Post("/cart/sub", h.subFromCart)
			r.Get("/cart/list", h.listCart)
			r.Delete("/cart/clean", h.cleanCart)

			r.Get("/dish/list", h.listDishes)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/order/{id}", h.getOrder)
			r.Put("/order/confirm", h.confirmOrder)
			r.Put("/order/delivery/{id}", h.startDelivery)
			r.Put("/order/complete/{id}", h.completeOrder)
			r.Put("/order/cancel", h.cancelOrder)

			r.Post("/dish", h.saveDish)
			r.Put("/dish", h.updateDish)
			r.Delete("/dish", h.deleteDishes)
			r.Post("/dish/status/{status}", h.setDishStatus)

			r.Post("/setmeal", h.saveSetmeal)
			r.Put("/setmeal", h.updateSetmeal)
			r.Delete("/setmeal", h.deleteSetmeals)
			r.Post("/setmeal/status/{status}", h.setSetmealStatus)
		})

		r.Get("/shop/status", h.shopStatus)
		r.Put("/shop/status/{status}", h.setShopStatus)
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
