package http

import (
	"context"
	"net/http"

	"finsafe/internal/log"
	"finsafe/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// requireUser loads the session and turns signed-out visitors away: HTMX
// requests get an HX-Redirect, plain ones a 303 to the login page.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Get(r)
		if !sess.LoggedIn() {
			redirect(w, r, "/login")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldSessionID, sess.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session loaded by requireUser, or loads it.
func (s *Server) sessionFrom(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return s.sessions.Get(r)
}

// commit persists sess before the response is written. Anonymous sessions
// that were never stored stay unsaved.
func (s *Server) commit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.IsNew() && !sess.LoggedIn() && sess.Flash == "" {
		return
	}
	if err := s.sessions.Save(r.Context(), w, sess); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to save session",
			log.FieldSessionID, sess.ID, log.FieldError, err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect navigates to url, through HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		NewHTMXResponse().Redirect(url).Write(w)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
