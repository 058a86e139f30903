package middleware

import (
	"errors"
	"net/http"
	"time"

	"erp-project/backend/auth"
	"erp-project/backend/logging"
	"erp-project/backend/models"
	"erp-project/backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Authenticated lets through any resolved caller: the superuser or a user
// with a local record.
func Authenticated(resolver *auth.Resolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := resolver.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			denied(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// RequirePermission lets through callers holding the capability.
func RequirePermission(resolver *auth.Resolver, capability models.Capability, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"), capability)
		if err != nil {
			denied(w, r, err)
			return
		}
		logging.Logger.Debugf("Event ID: AUTH_GRANTED, Description: %s granted %s for %s %s", identity.Email, capability, r.Method, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// RequireSession only verifies the token. Used for first-login registration,
// before a local record exists.
func RequireSession(resolver *auth.Resolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := resolver.Session(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			denied(w, r, err)
			return
		}
		identity := &auth.Identity{Session: session, Superuser: resolver.IsSuperuser(session.Email)}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

func denied(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		logging.Logger.Warnf("Event ID: AUTH_DENIED, Description: %s %s denied: %v", r.Method, r.URL.Path, authErr.Err)
		utils.RespondError(w, authErr.Status(), authErr.Message)
		return
	}
	logging.Logger.Errorf("Event ID: AUTH_RESOLVE_FAILED, Description: %s %s: %v", r.Method, r.URL.Path, err)
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}

// LimitBody caps request bodies. Inline base64 images make the limit large.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with a generated request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := logging.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		})
		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Error("Event ID: HTTP_REQUEST, Description: Request failed")
		case rec.status >= http.StatusBadRequest:
			entry.Warn("Event ID: HTTP_REQUEST, Description: Request rejected")
		default:
			entry.Info("Event ID: HTTP_REQUEST, Description: Request handled")
		}
	})
}
