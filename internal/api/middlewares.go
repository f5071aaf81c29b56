package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/granohq/accessd/internal/authz"
	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/pkg/logger"
)

type AccessEventPublisher interface {
	AccessDenied(ctx context.Context, subjectID uuid.UUID, policy entity.Policy, reason entity.Reason)
}

type Middleware struct {
	engine *authz.Engine
	events AccessEventPublisher
}

func NewMiddleware(engine *authz.Engine, events AccessEventPublisher) *Middleware {
	return &Middleware{
		engine: engine,
		events: events,
	}
}

// RequireAccess guards a protected operation with the given policy. Exactly
// one response is produced per deny; on allow the subject id is placed in
// context and control passes to the wrapped handler.
func (m *Middleware) RequireAccess(policy entity.Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		decision := m.engine.Decide(ctx, policy, r.Header.Get("Authorization"))
		if !decision.Allowed {
			if decision.Status == http.StatusForbidden {
				ctx = logger.SetLogType(ctx, "security")
				slog.WarnContext(ctx, "access denied",
					"subject_id", decision.SubjectID,
					"reason", decision.Reason,
					"required_role", policy.Role,
					"required_module", policy.Module,
					"required_action", policy.Action,
				)
				m.events.AccessDenied(ctx, decision.SubjectID, policy, decision.Reason)
			}

			sendErr(ctx, w, decision.Status, decision.Reason.Err(), decisionText(decision))

			return
		}

		ctx = context.WithValue(ctx, entity.CtxKeySubjectID{}, decision.SubjectID)
		ctx = logger.SetSubjectID(ctx, decision.SubjectID.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control, X-Service-Name")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logger.SetRequestID(r.Context(), uuid.Must(uuid.NewV4()).String())

		ctx = logger.SetMethod(ctx, r.Method)
		ctx = logger.SetURL(ctx, r.URL.Path)
		ctx = logger.SetUserAgent(ctx, r.UserAgent())
		ctx = logger.SetLogType(ctx, "webrequest")

		ip := entity.IPFromCtx(ctx)
		ctx = logger.SetIP(ctx, ip)

		slog.InfoContext(ctx, "incoming request")

		next.ServeHTTP(w, r.WithContext(ctx))

		duration := time.Since(start)
		slog.InfoContext(ctx, "request completed", "duration_ms", duration.Milliseconds())
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "panic", "error", err, "stack", string(debug.Stack()))
			}
		}(r.Context())
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := removePort(r.RemoteAddr)

		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			parts := splitAndTrim(xForwardedFor, ",")

			for _, part := range parts {
				part = removePort(part)
				if isValidIP(part) {
					ip = part
					break
				}
			}
		}

		if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
			xRealIP = removePort(xRealIP)
			if isValidIP(xRealIP) {
				ip = xRealIP
			}
		}

		if !isValidIP(ip) {
			slog.Warn("invalid IP detected, using fallback", "ip", ip, "remote_addr", r.RemoteAddr)
			ip = "unknown"
		}

		ctx := context.WithValue(r.Context(), entity.CtxKeyIP{}, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func removePort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := []string{}

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}

	parsedIP := net.ParseIP(ip)

	return parsedIP != nil
}
