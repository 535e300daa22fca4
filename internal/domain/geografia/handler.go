package geografia

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/parroquias", func(pr chi.Router) {
		pr.Post("/", createParroquiaHandler(svc))
		pr.Get("/", listParroquiasHandler(svc))
		pr.Delete("/{id}", deleteParroquiaHandler(svc))
	})

	r.Route("/consejos", func(cr chi.Router) {
		cr.Post("/", createConsejoHandler(svc))
		cr.Get("/", listConsejosHandler(svc))
		cr.Delete("/{id}", deleteConsejoHandler(svc))
	})
}

type parroquiaRequest struct {
	Nombre    string `json:"nombre"`
	Municipio string `json:"municipio"`
}

type parroquiaResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Municipio string    `json:"municipio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type consejoRequest struct {
	Nombre    string `json:"nombre"`
	Parroquia string `json:"parroquia"`
}

type consejoResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Parroquia string    `json:"parroquia,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func createParroquiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req parroquiaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.CreateParroquia(r.Context(), req.Nombre, req.Municipio)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toParroquiaResponse(p))
	}
}

func listParroquiasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListParroquias(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]parroquiaResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toParroquiaResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteParroquiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteParroquia(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createConsejoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req consejoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.CreateConsejo(r.Context(), req.Nombre, req.Parroquia)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toConsejoResponse(c))
	}
}

func listConsejosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListConsejos(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]consejoResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toConsejoResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteConsejoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteConsejo(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toParroquiaResponse(p Parroquia) parroquiaResponse {
	return parroquiaResponse{
		ID:        p.ID,
		Nombre:    p.Nombre,
		Municipio: p.Municipio,
		CreatedAt: p.CreatedAt,
	}
}

func toConsejoResponse(c ConsejoComunal) consejoResponse {
	return consejoResponse{
		ID:        c.ID,
		Nombre:    c.Nombre,
		Parroquia: c.Parroquia,
		CreatedAt: c.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
