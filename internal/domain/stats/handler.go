package stats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/stats", func(sr chi.Router) {
		sr.Get("/parroquias", groupedHandler(svc.PorParroquia))
		sr.Get("/consejos", groupedHandler(svc.PorConsejo))
	})
}

func groupedHandler(fn func(ctx context.Context) ([]Grupo, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grupos, err := fn(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if grupos == nil {
			grupos = []Grupo{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(grupos)
	}
}
