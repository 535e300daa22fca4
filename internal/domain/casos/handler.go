package casos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"registro-obras/internal/middleware"
	"registro-obras/internal/platform/logger"
	"registro-obras/internal/ports/upload"
)

func RegisterRoutes(r chi.Router, svc *Service, uploader upload.Uploader, log logger.Logger) {
	r.Route("/casos", func(cr chi.Router) {
		cr.Get("/", listCasosHandler(svc, log))
		cr.Post("/", createCasoHandler(svc, log))

		cr.Get("/{casoID}", getCasoHandler(svc, log))
		cr.Patch("/{casoID}", updateCasoHandler(svc, log))

		cr.Patch("/{casoID}/estado", transitionHandler(svc, log))
		cr.Patch("/{casoID}/confirmar-entrega", confirmarEntregaHandler(svc, log))
		cr.Delete("/{casoID}", eliminarCasoHandler(svc, log))

		cr.Post("/{casoID}/actuaciones", agregarActuacionHandler(svc, log))
		cr.Post("/{casoID}/adjunto", subirAdjuntoHandler(svc, uploader, log))
	})
}

type casoResponse struct {
	ID             string         `json:"id"`
	Codigo         string         `json:"codigo,omitempty"`
	Nombre         string         `json:"nombre"`
	Descripcion    string         `json:"descripcion"`
	Parroquia      string         `json:"parroquia"`
	ConsejoComunal string         `json:"consejo_comunal"`
	Estado         string         `json:"estado"`
	FechaCaso      time.Time      `json:"fecha_caso"`
	FechaEntrega   *time.Time     `json:"fecha_entrega"`
	AdjuntoRef     string         `json:"adjunto_ref,omitempty"`
	Actuaciones    []Actuacion    `json:"actuaciones"`
	Modificaciones []Modificacion `json:"modificaciones"`
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type createCasoRequest struct {
	Codigo         string `json:"codigo"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	Parroquia      string `json:"parroquia"`
	ConsejoComunal string `json:"consejo_comunal"`
	Estado         string `json:"estado"`
	FechaCaso      string `json:"fecha_caso"` // YYYY-MM-DD opcional
	AdjuntoRef     string `json:"adjunto_ref"`
}

type updateCasoRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Codigo         *string `json:"codigo"`
	Nombre         *string `json:"nombre"`
	Descripcion    *string `json:"descripcion"`
	Parroquia      *string `json:"parroquia"`
	ConsejoComunal *string `json:"consejo_comunal"`
	AdjuntoRef     *string `json:"adjunto_ref"`
	FechaCaso      *string `json:"fecha_caso"` // YYYY-MM-DD
}

type transitionRequest struct {
	Estado string `json:"estado"`
	Autor  string `json:"autor"`
}

type confirmarEntregaRequest struct {
	Clave string `json:"clave"`
	Autor string `json:"autor"`
}

type eliminarRequest struct {
	Clave string `json:"clave"`
}

type actuacionRequest struct {
	Descripcion string `json:"descripcion"`
}

func createCasoHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCasoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var fecha time.Time
		if strings.TrimSpace(req.FechaCaso) != "" {
			t, err := time.Parse("2006-01-02", req.FechaCaso)
			if err != nil {
				http.Error(w, "fecha_caso must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			fecha = t
		}

		c, err := svc.Create(r.Context(), actorDe(r), CreateInput{
			Codigo:         req.Codigo,
			Nombre:         req.Nombre,
			Descripcion:    req.Descripcion,
			Parroquia:      req.Parroquia,
			ConsejoComunal: req.ConsejoComunal,
			Estado:         req.Estado,
			FechaCaso:      fecha,
			AdjuntoRef:     req.AdjuntoRef,
		})
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":   c.ID,
			"caso": toCasoResponse(c),
		})
	}
}

func listCasosHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		p, err := svc.List(r.Context(), page, limit)
		if err != nil {
			writeError(w, err, log)
			return
		}

		out := make([]casoResponse, 0, len(p.Casos))
		for _, c := range p.Casos {
			out = append(out, toCasoResponse(c))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"casos":        out,
			"current_page": p.CurrentPage,
			"total_pages":  p.TotalPages,
			"total_count":  p.TotalCount,
		})
	}
}

func getCasoHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "casoID"))
		if err != nil {
			writeError(w, err, log)
			return
		}
		writeJSON(w, http.StatusOK, toCasoResponse(c))
	}
}

func updateCasoHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateCasoRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cambios := Cambios{
			Codigo:         req.Codigo,
			Nombre:         req.Nombre,
			Descripcion:    req.Descripcion,
			Parroquia:      req.Parroquia,
			ConsejoComunal: req.ConsejoComunal,
			AdjuntoRef:     req.AdjuntoRef,
		}
		if req.FechaCaso != nil {
			t, err := time.Parse("2006-01-02", *req.FechaCaso)
			if err != nil {
				http.Error(w, "fecha_caso must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			cambios.FechaCaso = &t
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "casoID"), actorDe(r), cambios)
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"caso": toCasoResponse(c)})
	}
}

func transitionHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		autor := strings.TrimSpace(req.Autor)
		if autor == "" {
			autor = actorDe(r)
		}

		c, err := svc.Transition(r.Context(), chi.URLParam(r, "casoID"), Estado(strings.TrimSpace(req.Estado)), autor)
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"caso": toCasoResponse(c)})
	}
}

func confirmarEntregaHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmarEntregaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		autor := strings.TrimSpace(req.Autor)
		if autor == "" {
			autor = actorDe(r)
		}

		c, err := svc.ConfirmarEntrega(r.Context(), chi.URLParam(r, "casoID"), req.Clave, autor)
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"caso": toCasoResponse(c)})
	}
}

func eliminarCasoHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req eliminarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Eliminar(r.Context(), chi.URLParam(r, "casoID"), req.Clave)
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"deleted_caso": toCasoResponse(c)})
	}
}

func agregarActuacionHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actuacionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.AgregarActuacion(r.Context(), chi.URLParam(r, "casoID"), req.Descripcion, actorDe(r))
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"caso": toCasoResponse(c)})
	}
}

// subirAdjuntoHandler manda los bytes al colaborador de subida y guarda
// solo la referencia por la vía de edición auditada normal.
func subirAdjuntoHandler(svc *Service, uploader upload.Uploader, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		casoID := chi.URLParam(r, "casoID")

		// El caso tiene que existir antes de gastar la subida.
		if _, err := svc.GetByID(r.Context(), casoID); err != nil {
			writeError(w, err, log)
			return
		}

		ref, err := uploader.Upload(
			r.Context(),
			r.URL.Query().Get("name"),
			r.Header.Get("Content-Type"),
			r.Body,
		)
		if err != nil {
			if log != nil {
				log.Error("subida de adjunto falló", map[string]any{"caso_id": casoID, "err": err.Error()})
			}
			http.Error(w, "upload failed", http.StatusBadGateway)
			return
		}

		c, err := svc.Update(r.Context(), casoID, actorDe(r), Cambios{AdjuntoRef: &ref})
		if err != nil {
			writeError(w, err, log)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"caso": toCasoResponse(c)})
	}
}

func actorDe(r *http.Request) string {
	if a, ok := middleware.GetActor(r.Context()); ok {
		return a.ID
	}
	return ""
}

func toCasoResponse(c Caso) casoResponse {
	actuaciones := c.Actuaciones
	if actuaciones == nil {
		actuaciones = []Actuacion{}
	}
	modificaciones := c.Modificaciones
	if modificaciones == nil {
		modificaciones = []Modificacion{}
	}

	return casoResponse{
		ID:             c.ID,
		Codigo:         c.Codigo,
		Nombre:         c.Nombre,
		Descripcion:    c.Descripcion,
		Parroquia:      c.Parroquia,
		ConsejoComunal: c.ConsejoComunal,
		Estado:         string(c.Estado),
		FechaCaso:      c.FechaCaso,
		FechaEntrega:   c.FechaEntrega,
		AdjuntoRef:     c.AdjuntoRef,
		Actuaciones:    actuaciones,
		Modificaciones: modificaciones,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// writeError mapea los sentinels del dominio a status codes.
// Nada del secreto correcto se filtra en el 401.
func writeError(w http.ResponseWriter, err error, log logger.Logger) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEstadoInvalido), errors.Is(err, ErrActorRequerido):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "caso not found", http.StatusNotFound)
	case errors.Is(err, ErrCasoEntregado):
		http.Error(w, "caso ya entregado", http.StatusForbidden)
	case errors.Is(err, ErrClaveInvalida):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrVersionConflict):
		http.Error(w, "version conflict, re-fetch and retry", http.StatusConflict)
	default:
		if log != nil {
			log.Error("internal error", map[string]any{"err": err.Error()})
		}
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
