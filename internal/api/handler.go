package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/granohq/accessd/internal/entity"
)

type Service interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (entity.User, error)
	Login(ctx context.Context, email, password string) (entity.User, string, error)
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK\n"))
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResponse struct {
	User entity.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	user, err := h.s.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEmailTaken):
			sendErr(ctx, w, http.StatusBadRequest, err, "email already registered")
		case errors.Is(err, entity.ErrEmailInvalidFormat),
			errors.Is(err, entity.ErrEmailInvalidLen),
			errors.Is(err, entity.ErrPasswordInvalidLen),
			errors.Is(err, entity.ErrPasswordNoLetter),
			errors.Is(err, entity.ErrPasswordNoDigit):
			sendErr(ctx, w, http.StatusUnprocessableEntity, err, err.Error())
		default:
			sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		}

		return
	}

	sendJSON(ctx, w, http.StatusCreated, RegisterResponse{User: user})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  entity.User `json:"user"`
	Token string      `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	user, token, err := h.s.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrUserNotFound):
			sendErr(ctx, w, http.StatusBadRequest, err, "user does not exist")
		case errors.Is(err, entity.ErrInvalidCredentials):
			sendErr(ctx, w, http.StatusUnauthorized, err, errUnauthorizedText)
		case errors.Is(err, entity.ErrEmailInvalidFormat), errors.Is(err, entity.ErrEmailInvalidLen):
			sendErr(ctx, w, http.StatusUnprocessableEntity, err, err.Error())
		default:
			sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		}

		return
	}

	sendJSON(ctx, w, http.StatusOK, LoginResponse{User: user, Token: token})
}

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListProductsResponse struct {
	SubjectID string    `json:"subject_id"`
	Products  []Product `json:"products"`
}

// ListProducts is a sample protected operation; the route mounts it behind
// RequireAccess for the product module.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sendJSON(ctx, w, http.StatusOK, ListProductsResponse{
		SubjectID: entity.SubjectIDFromCtx(ctx).String(),
		Products: []Product{
			{ID: "p-1001", Name: "starter plan"},
			{ID: "p-1002", Name: "pro plan"},
		},
	})
}
