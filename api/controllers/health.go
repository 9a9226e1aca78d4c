package controllers

import (
	"net/http"

	"github.com/mgallardo/cartfront-backend/api/responses"
	"github.com/mgallardo/cartfront-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cartfront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
