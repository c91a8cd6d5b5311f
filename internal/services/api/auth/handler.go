package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authcodec "github.com/bookly-labs/bookly/internal/auth"
	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
	"github.com/bookly-labs/bookly/internal/obs"
)

// Controller exposes the account lifecycle over HTTP. It owns only transport
// concerns: decoding requests, running the guards and writing the uniform
// error bodies.
type Controller struct {
	uc        *Usecase
	tokens    *authcodec.TokenCodec
	blocklist domainauth.Blocklist
	log       *zap.Logger
}

func NewController(uc *Usecase, tokens *authcodec.TokenCodec, blocklist domainauth.Blocklist, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		uc:        uc,
		tokens:    tokens,
		blocklist: blocklist,
		log:       log.With(zap.String("component", "auth.http")),
	}
}

func (c *Controller) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", c.handleSignUp)
	r.Get("/verify/{token}", c.handleVerify)
	r.Post("/login", c.handleLogin)
	r.Post("/password-reset-request", c.handlePasswordResetRequest)
	r.Post("/password-reset-confirm/{token}", c.handlePasswordResetConfirm)
	r.Post("/send_mail", c.handleSendMail)

	r.Group(func(g chi.Router) {
		g.Use(c.RequireToken(domainauth.RefreshToken))
		g.Get("/refresh_token", c.handleRefresh)
	})

	r.Group(func(g chi.Router) {
		g.Use(c.RequireToken(domainauth.AccessToken))
		g.Get("/logout", c.handleLogout)
		g.With(c.RequireRoles("admin", "user")).Get("/me", c.handleMe)
	})

	return r
}

func (c *Controller) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in SignUpInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := c.uc.SignUp(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	signups.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully! Check your email to verify your account",
		"user":    rec,
	})
}

func (c *Controller) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := c.uc.Verify(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Account verified successfully",
	})
}

func (c *Controller) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, pair, err := c.uc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		logins.WithLabelValues("failure").Inc()
		writeDomainError(w, r, c.log, err)
		return
	}
	logins.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "login successful",
		"access_token":  pair.Access,
		"refresh_token": pair.Refresh,
		"user": map[string]string{
			"email": rec.Email,
			"uid":   rec.UID.String(),
		},
	})
}

func (c *Controller) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	access, err := c.uc.Refresh(r.Context(), claims)
	if err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
	})
}

func (c *Controller) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if err := c.uc.Logout(r.Context(), claims); err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "logout successful",
	})
}

func (c *Controller) handleMe(w http.ResponseWriter, r *http.Request) {
	rec, err := c.uc.Me(r.Context(), ClaimsFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (c *Controller) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := c.uc.RequestPasswordReset(r.Context(), in.Email); err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "password reset link sent! please check your email for more details",
	})
}

func (c *Controller) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var in struct {
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_new_password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	err := c.uc.ConfirmPasswordReset(r.Context(), chi.URLParam(r, "token"), in.NewPassword, in.ConfirmPassword)
	if err != nil {
		writeDomainError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Password reset successful",
	})
}

func (c *Controller) handleSendMail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Addresses []string `json:"addresses"`
		Subject   string   `json:"subject"`
		Body      string   `json:"body"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	subject := in.Subject
	if subject == "" {
		subject = "Welcome to the app"
	}
	body := in.Body
	if body == "" {
		body = "<h1>Welcome to the app</h1>"
	}
	c.uc.SendMail(r.Context(), in.Addresses, subject, body)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "email sent successfully",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, &domainauth.Error{
			Status:  http.StatusBadRequest,
			Code:    "bad_request",
			Message: "Request body is not valid JSON",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *domainauth.Error) {
	writeJSON(w, e.Status, e)
}

// writeDomainError maps a usecase failure onto the wire. Known auth errors
// pass through with their status and code; anything else is logged and
// collapsed into the opaque server_error body.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *domainauth.Error
	if errors.As(err, &ae) {
		writeError(w, ae)
		return
	}
	obs.WithTrace(r.Context(), log).Error("request failed",
		zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, domainauth.ErrServer)
}
