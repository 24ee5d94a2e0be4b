package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/auth"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

type emailRequestDTO struct {
	Email string `json:"email"`
}

type otpRequestDTO struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetRequestDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type sessionResponseDTO struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (s *Server) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if err := s.auth.SendOTP(r.Context(), req.Email); err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
}

func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and otp are required")
		return
	}
	result, err := s.auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	s.establishSession(w, r, result, req.Email)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	result, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	s.establishSession(w, r, result, creds.Email)
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid signup payload")
		return
	}
	result, err := s.auth.Signup(r.Context(), req)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	s.establishSession(w, r, result, req.Email)
}

// establishSession persists the auth response and flips the session's auth
// machine to Authenticated.
func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, result api.LoginResult, email string) {
	sid := session.SIDFromContext(r.Context())
	sess := result.Session(email)

	if err := s.store.SetAuth(r.Context(), sid, sess); err != nil {
		s.log.Error("persist session failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "session_error", "could not persist session")
		return
	}
	s.states.Machine(sid).Login()

	resp := sessionResponseDTO{Email: email}
	if sess.User != nil {
		resp.Email = sess.User.Email
		resp.Name = sess.User.Name
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if err := s.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset_mail_sent"})
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "token and password are required")
		return
	}
	if err := s.auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Profile(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sid := session.SIDFromContext(r.Context())
	if err := s.store.Clear(r.Context(), sid); err != nil {
		s.log.Error("clear session failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "session_error", "could not clear session")
		return
	}
	s.states.Machine(sid).Logout()
	s.states.Forget(auth.AdminKey(sid))
	s.flows.Forget(sid)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// AdminLogin authenticates against the same auth API but stores the token
// under the admin session keys, so admin access never piggybacks on a
// shopper login.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	result, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		respondAPIError(w, err)
		return
	}

	sid := session.SIDFromContext(r.Context())
	if err := s.store.SetAdminAuth(r.Context(), sid, result.Session(creds.Email)); err != nil {
		s.log.Error("persist admin session failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "session_error", "could not persist session")
		return
	}
	s.states.Machine(auth.AdminKey(sid)).Login()
	respondJSON(w, http.StatusOK, sessionResponseDTO{Email: creds.Email})
}
