package cartpage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgallardo/cartfront-backend/api/responses"
	"github.com/mgallardo/cartfront-backend/api/validators"
	"github.com/mgallardo/cartfront-backend/internal/cartview"
	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
	"github.com/mgallardo/cartfront-backend/pkg/logger"
)

// Watcher is the page-state surface the handlers consume.
type Watcher interface {
	SetCartID(cartID string) error
	Snapshot() cartview.Snapshot
}

// Page renders the HTML cart page from the current watcher snapshot.
func Page(watcher Watcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if watcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart watcher unavailable"))
			return
		}

		view := newSnapshotView(watcher.Snapshot())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, view); err != nil && logg != nil {
			logg.Error(r.Context(), "render cart page", err)
		}
	}
}

// SnapshotFetch exposes the watcher state as JSON.
func SnapshotFetch(watcher Watcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if watcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart watcher unavailable"))
			return
		}

		responses.WriteSuccess(w, newSnapshotView(watcher.Snapshot()))
	}
}

// Select switches the cart id the page watches.
func Select(watcher Watcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if watcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart watcher unavailable"))
			return
		}

		var payload SelectCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := watcher.SetCartID(payload.CartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, newSnapshotView(watcher.Snapshot()))
	}
}

// CartFetch fetches one cart directly, bypassing the page state.
func CartFetch(svc cartview.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.RequireID(chi.URLParam(r, "cartID"), "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetCartByID(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartSummary(cart))
	}
}
