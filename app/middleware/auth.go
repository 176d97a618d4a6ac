package middleware

import (
	"errors"
	"log"
	"net/http"

	"modboard/app/identity"
	"modboard/app/models"
)

// UserResolver maps a verified clerk id to a stored user.
type UserResolver interface {
	GetOrCreateByClerkID(clerkID string) (models.User, error)
}

// Authenticate verifies the bearer token when one is sent and stores the
// caller on the request context. Requests without a token pass through
// anonymously; a bad token is rejected with 401.
func Authenticate(users UserResolver, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := identity.BearerToken(r.Header.Get("Authorization"))
			if errors.Is(err, identity.ErrMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			claims, err := identity.Parse(secret, token)
			if err != nil {
				log.Printf("token rejected: %v [%s]", err, RequestIDFrom(r.Context()))
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			user, err := users.GetOrCreateByClerkID(claims.Subject)
			if err != nil {
				log.Printf("resolve user %q: %v [%s]", claims.Subject, err, RequestIDFrom(r.Context()))
				writeError(w, http.StatusInternalServerError, "failed to resolve user")
				return
			}
			caller := identity.Caller{
				User:  user,
				Actor: models.Actor{UserID: user.ID, Role: identity.ResolveRole(claims, user.Role)},
			}
			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
		})
	}
}

// RequireCaller rejects anonymous requests with 401.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.CallerFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
