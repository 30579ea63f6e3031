package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/middleware/trace"
	"finsafe/internal/services"
)

const (
	msgFillAllFields  = "Please fill in all fields."
	msgInvalidMinimum = "Please enter a valid minimum balance."
	msgInvalidRequest = "Invalid request format."
	msgPageNotFound   = "Page not found."
	readyCheckTimeout = 3 * time.Second
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	view := newPage("Welcome", sess)
	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "index_page", view)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		NotFoundError(msgPageNotFound).Write(w)
		return
	}
	sess := s.sessions.Get(r)
	view := newPage("Not found", sess)
	view.Error = msgPageNotFound
	s.render(w, r, http.StatusNotFound, "error_page", view)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	if sess.LoggedIn() {
		redirect(w, r, "/dashboard")
		return
	}
	s.render(w, r, http.StatusOK, "login_page", authView{page: newPage("Login", sess)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	if sess.LoggedIn() {
		redirect(w, r, "/dashboard")
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}
	creds := ParseCredentials(p)
	view := authView{page: newPage("Login", sess), Email: creds.Email}
	if creds.Email == "" || creds.Password == "" {
		view.Error = msgFillAllFields
		s.render(w, r, http.StatusUnprocessableEntity, "login_page", view)
		return
	}

	ctx, cancel := s.apiContext(r)
	defer cancel()
	if err := s.auth.Login(ctx, sess, creds); err != nil {
		view.Error = sess.Auth.Error
		s.render(w, r, http.StatusUnauthorized, "login_page", view)
		return
	}

	s.commit(w, r, sess)
	redirect(w, r, "/dashboard")
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	if sess.LoggedIn() {
		redirect(w, r, "/dashboard")
		return
	}
	s.render(w, r, http.StatusOK, "register_page", authView{page: newPage("Register", sess), MinBalance: "0"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	if sess.LoggedIn() {
		redirect(w, r, "/dashboard")
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}
	req, err := ParseRegistration(p)
	view := authView{
		page:       newPage("Register", sess),
		Name:       req.Name,
		Email:      req.Email,
		MinBalance: p.Get("minBalance"),
	}
	switch {
	case err != nil:
		view.Error = msgInvalidMinimum
	case req.Name == "" || req.Email == "" || req.Password == "":
		view.Error = msgFillAllFields
	}
	if view.Error != "" {
		s.render(w, r, http.StatusUnprocessableEntity, "register_page", view)
		return
	}

	ctx, cancel := s.apiContext(r)
	defer cancel()
	if err := s.auth.Register(ctx, sess, req); err != nil {
		view.Error = sess.Auth.Error
		s.render(w, r, http.StatusUnprocessableEntity, "register_page", view)
		return
	}

	s.commit(w, r, sess)
	redirect(w, r, "/dashboard")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)
	s.auth.Logout(r.Context(), sess)
	if err := s.sessions.Destroy(r.Context(), w, sess); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to delete session",
			log.FieldSessionID, sess.ID, log.FieldError, err)
	}
	redirect(w, r, "/login")
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	view := settingsView{
		page:       newPage("Settings", sess),
		MinBalance: core.FormatPlain(sess.User().MinBalance),
	}
	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "settings_page", view)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}
	raw := p.Get("minBalance")
	view := settingsView{page: newPage("Settings", sess), MinBalance: raw}

	v, err := ParseMinBalance(raw)
	if err != nil {
		view.Error = msgInvalidMinimum
		s.render(w, r, http.StatusUnprocessableEntity, "settings_page", view)
		return
	}

	ctx, cancel := s.apiContext(r)
	defer cancel()
	if err := s.auth.UpdateMinBalance(ctx, sess, v); err != nil {
		view.Error = sess.Auth.Error
		s.commit(w, r, sess)
		s.render(w, r, http.StatusUnprocessableEntity, "settings_page", view)
		return
	}

	s.commit(w, r, sess)
	redirect(w, r, "/settings")
}

// handleConfirmName redeems the link from the name change email. It is
// public: the link may be opened in a browser without a session.
func (s *Server) handleConfirmName(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r)

	ctx, cancel := s.apiContext(r)
	defer cancel()
	msg := s.auth.ConfirmNameChange(ctx, sess, r.URL.Query().Get("token"))

	view := confirmView{
		page:    newPage("Confirm name change", sess),
		Message: msg,
		Success: !strings.HasPrefix(msg, "Error"),
	}
	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "confirm_page", view)
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime,omitempty"`
	Requests  int64             `json:"requests,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    statusOK,
		Timestamp: s.now().UTC(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Requests:  s.tracer.GetStats().TotalRequests,
		RequestID: trace.GetRequestID(r.Context()),
	})
}

// handleReady checks templates, the FinSafe API and the session store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	checks := map[string]string{"templates": statusOK}
	ready := true
	fail := func(name string, err error) {
		ready = false
		checks[name] = statusUnavailable
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", "check", name, log.FieldError, err)
	}

	if s.templates == nil {
		ready = false
		checks["templates"] = statusUnavailable
	}
	if s.api != nil {
		checks["api"] = statusOK
		if err := s.api.Ping(ctx); err != nil {
			fail("api", err)
		}
	}
	if s.sessions != nil {
		store := s.sessions.Store()
		checks["sessions"] = statusOK
		if err := store.Ping(ctx); err != nil {
			fail("sessions", err)
		}
	}

	resp := healthResponse{Status: statusOK, Timestamp: s.now().UTC(), Checks: checks}
	status := http.StatusOK
	if !ready {
		resp.Status = statusUnavailable
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// userMessage is the text shown for a failed service call.
func userMessage(err error, fallback string) string {
	return services.UserMessage(err, fallback)
}
