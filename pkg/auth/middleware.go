package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/bookkeeper/pkg/httpx"
	"github.com/ghuser/bookkeeper/pkg/logger"
)

const sessionName = "bookkeeper_session"
const sessionTenantIDKey = "tenant_id"

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the TenantID, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid tenant_id.
//
// After this middleware, handlers can safely call auth.TenantIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			tenantIDStr, ok := session.Values[sessionTenantIDKey].(string)
			if !ok || tenantIDStr == "" {
				log.WarnContext(r.Context(), "session missing tenant_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			tenantID, err := uuid.Parse(tenantIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid tenant_id in session", "tenant_id", tenantIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := WithTenantID(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
