package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/NV18Codes/khaddar-storefront/internal/auth"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

const (
	SessionHeader = "X-Session-Id"
	sessionCookie = "khaddar_sid"

	loginPath      = "/login"
	adminLoginPath = "/admin/login"
)

// Session resolves the tab's session id from the X-Session-Id header or the
// session cookie, minting a fresh id when neither is present. The id is
// echoed back in the response header so the SPA can pick it up.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(SessionHeader)
		if sid == "" {
			if c, err := r.Cookie(sessionCookie); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, sid)

		next.ServeHTTP(w, r.WithContext(session.WithSID(r.Context(), sid)))
	})
}

// RequireAuth gates authenticated-only views. No token, or a token the API
// has since rejected, redirects to the login view. The check runs on every
// request, so a 401-driven expiry takes effect immediately.
func RequireAuth(store session.Store, states *auth.Registry) func(http.Handler) http.Handler {
	return requireToken(states, loginPath, func(r *http.Request) (string, error) {
		sess, err := store.Auth(r.Context(), session.SIDFromContext(r.Context()))
		return sess.AuthToken, err
	}, func(sid string) string { return sid })
}

// RequireAdmin gates admin views on the admin token, which lives under its
// own session keys. A shopper token never passes this guard.
func RequireAdmin(store session.Store, states *auth.Registry) func(http.Handler) http.Handler {
	return requireToken(states, adminLoginPath, func(r *http.Request) (string, error) {
		sess, err := store.AdminAuth(r.Context(), session.SIDFromContext(r.Context()))
		return sess.AuthToken, err
	}, auth.AdminKey)
}

func requireToken(
	states *auth.Registry,
	redirectTo string,
	token func(*http.Request) (string, error),
	stateKey func(string) string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := session.SIDFromContext(r.Context())
			if sid == "" {
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}

			machine := states.Machine(stateKey(sid))
			if machine.Status() == auth.StatusExpired {
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}

			tok, err := token(r)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "session_error", "session store unavailable")
				return
			}
			if tok == "" {
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}

			// a stored token with a fresh in-process machine means a session
			// restored across restarts
			if machine.Status() == auth.StatusAnonymous {
				machine.Login()
			}

			next.ServeHTTP(w, r)
		})
	}
}
