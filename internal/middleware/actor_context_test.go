package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActorContext_ConHeaders(t *testing.T) {
	var got Actor
	var ok bool

	h := ActorContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetActor(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Actor-ID", "ana")
	req.Header.Set("X-Actor-Rol", "supervisor")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got.ID != "ana" || got.Rol != "supervisor" {
		t.Fatalf("actor inesperado: %+v ok=%v", got, ok)
	}
}

func TestActorContext_SinHeaders(t *testing.T) {
	var ok bool

	h := ActorContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetActor(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if ok {
		t.Fatalf("sin headers no debe haber actor en el contexto")
	}
}
