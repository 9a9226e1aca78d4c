package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgallardo/cartfront-backend/api/controllers"
	"github.com/mgallardo/cartfront-backend/api/controllers/cartpage"
	"github.com/mgallardo/cartfront-backend/api/middleware"
	"github.com/mgallardo/cartfront-backend/internal/cartview"
	"github.com/mgallardo/cartfront-backend/pkg/config"
	"github.com/mgallardo/cartfront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	watcher cartpage.Watcher,
	cartService cartview.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/cart", cartpage.Page(watcher, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cart", cartpage.SnapshotFetch(watcher, logg))
		r.Post("/cart/select", cartpage.Select(watcher, logg))
		r.Get("/carts/{cartID}", cartpage.CartFetch(cartService, logg))
	})

	return r
}
