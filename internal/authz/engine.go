// Package authz makes the access decision for one inbound request: extract
// the bearer credential, verify it, load the subject's authorization graph,
// and apply the role and permission gates.
package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/internal/token"
)

const bearerScheme = "Bearer "

type TokenVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
}

type DirectoryReader interface {
	Load(ctx context.Context, subjectID uuid.UUID) (entity.UserGraph, error)
}

type Engine struct {
	verifier  TokenVerifier
	directory DirectoryReader
}

func NewEngine(verifier TokenVerifier, directory DirectoryReader) *Engine {
	return &Engine{
		verifier:  verifier,
		directory: directory,
	}
}

// ExtractBearer pulls the raw token out of an Authorization header value.
// The scheme must be exactly "Bearer <token>".
func ExtractBearer(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, bearerScheme)
	if !ok || raw == "" {
		return "", entity.ErrTokenMissing
	}

	return raw, nil
}

// Decide runs the full decision state machine and returns exactly one
// terminal Decision. Steps are strictly sequential; every deny
// short-circuits. Exact token failure classes and directory errors are
// logged here and must not be exposed to the caller verbatim.
func (e *Engine) Decide(ctx context.Context, policy entity.Policy, authorization string) entity.Decision {
	raw, err := ExtractBearer(authorization)
	if err != nil {
		return entity.Deny(entity.ReasonTokenMissing, http.StatusUnauthorized)
	}

	claims, err := e.verifier.Verify(raw)
	if err != nil {
		slog.WarnContext(ctx, "credential rejected", "error", err)

		switch {
		case errors.Is(err, entity.ErrTokenExpired):
			return entity.Deny(entity.ReasonTokenExpired, http.StatusUnauthorized)
		case errors.Is(err, entity.ErrTokenMalformed):
			return entity.Deny(entity.ReasonTokenMalformed, http.StatusUnauthorized)
		default:
			return entity.Deny(entity.ReasonTokenInvalid, http.StatusUnauthorized)
		}
	}

	subjectID, err := uuid.FromString(claims.Subject)
	if err != nil {
		slog.WarnContext(ctx, "credential subject is not an id", "subject", claims.Subject)
		return entity.Deny(entity.ReasonTokenMalformed, http.StatusUnauthorized)
	}

	graph, err := e.directory.Load(ctx, subjectID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			slog.WarnContext(ctx, "credential subject unknown to directory", "subject_id", subjectID)
			return entity.Deny(entity.ReasonUserNotFound, http.StatusBadRequest)
		}

		slog.ErrorContext(ctx, "directory read failed", "subject_id", subjectID, "error", err.Error())

		return entity.Deny(entity.ReasonDirectoryUnavailable, http.StatusInternalServerError)
	}

	if graph.IsSuperAdmin {
		return entity.Allow(entity.ReasonSuperAdmin, subjectID)
	}

	set := Resolve(ctx, graph)

	if !set.HasRole(policy.Role) {
		return entity.Decision{
			Reason:    entity.ReasonRoleDenied,
			Status:    http.StatusForbidden,
			SubjectID: subjectID,
		}
	}

	if !set.HasPermission(policy.Module, policy.Action) {
		return entity.Decision{
			Reason:    entity.ReasonPermissionDenied,
			Status:    http.StatusForbidden,
			SubjectID: subjectID,
		}
	}

	return entity.Allow(entity.ReasonAllowed, subjectID)
}
