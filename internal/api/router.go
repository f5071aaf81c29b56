package api

import (
	"net/http"

	"github.com/granohq/accessd/internal/entity"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("/api/health", h.Health)

	router.HandleFunc("POST /api/auth/register", h.Register)
	router.HandleFunc("POST /api/auth/login", h.Login)

	router.Handle("GET /api/products", mw.RequireAccess(
		entity.Policy{Role: "admin", Action: entity.ActionRead, Module: "product"},
		http.HandlerFunc(h.ListProducts),
	))

	handler := use(router, mw.Recover, mw.Cors, mw.WithIP, mw.Log)

	return handler
}

func use(handler http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	return handler
}
