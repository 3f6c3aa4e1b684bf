// Package handler exposes the login flow over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"constituent-connect/backend/internal/audit"
	authndomain "constituent-connect/backend/internal/authn/domain"
	"constituent-connect/backend/internal/devotp"
	logindomain "constituent-connect/backend/internal/login/domain"
	loginservice "constituent-connect/backend/internal/login/service"
	"constituent-connect/backend/internal/security"
	"constituent-connect/backend/internal/server/httpx"
	sessionservice "constituent-connect/backend/internal/session/service"
	"constituent-connect/backend/internal/telemetry"
	telemetrydomain "constituent-connect/backend/internal/telemetry/domain"
)

// Handler serves the login, verification, and token endpoints.
type Handler struct {
	resolver *loginservice.Resolver
	sessions *sessionservice.SessionService
	tokens   *security.TokenProvider
	auditor  audit.AuditLogger
	emitter  telemetry.EventEmitter
	devOTP   devotp.Store // nil unless dev OTP mode is on
}

// New returns a login Handler. devOTP may be nil.
func New(resolver *loginservice.Resolver, sessions *sessionservice.SessionService, tokens *security.TokenProvider, auditor audit.AuditLogger, emitter telemetry.EventEmitter, devOTP devotp.Store) *Handler {
	return &Handler{
		resolver: resolver,
		sessions: sessions,
		tokens:   tokens,
		auditor:  auditor,
		emitter:  emitter,
		devOTP:   devOTP,
	}
}

// Routes registers the login endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login/begin", h.beginLogin)
	r.Post("/login/verify", h.verify)
	r.Post("/login/resolve", h.resolve)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
}

// DevRoutes registers the dev-only OTP peek endpoint. Only called when dev
// OTP mode is enabled.
func (h *Handler) DevRoutes(r chi.Router) {
	r.Get("/otp/{challengeID}", h.devOTPPeek)
}

type beginLoginRequest struct {
	Phone string `json:"phone"`
}

type loginResponse struct {
	Route        string `json:"route,omitempty"`
	AccountID    string `json:"accountId,omitempty"`
	ChallengeID  string `json:"challengeId,omitempty"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (h *Handler) beginLogin(w http.ResponseWriter, r *http.Request) {
	var req beginLoginRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sess := logindomain.NewSession()
	out, err := h.resolver.BeginLogin(r.Context(), sess, req.Phone)
	if err != nil {
		h.writeLoginError(w, r, "begin_login", err)
		return
	}
	if out.Challenge != nil {
		h.emit(r, "", "otp_challenge_issued", nil)
		httpx.WriteSuccess(w, http.StatusOK, loginResponse{
			ChallengeID: out.Challenge.ID,
			ExpiresAt:   out.Challenge.ExpiresAt.Format(time.RFC3339),
		})
		return
	}
	h.finishLogin(w, r, sess, out.Decision)
}

type verifyRequest struct {
	ChallengeID string `json:"challengeId"`
	Code        string `json:"code"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.ChallengeID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "challengeId is required")
		return
	}
	sess := logindomain.NewSession()
	sess.State = logindomain.StateAwaitingCode
	sess.Challenge = &authndomain.Challenge{ID: req.ChallengeID}

	out, err := h.resolver.SubmitCode(r.Context(), sess, req.Code)
	if err != nil {
		// phone ownership is already proven here, so hand out a short-lived
		// resolve token the client can use to retry the record read without
		// restarting verification
		if errors.Is(err, loginservice.ErrLookupFailed) && sess.State == logindomain.StateVerified {
			resolveToken, _, tokenErr := h.tokens.IssueResolve(sess.AccountID)
			if tokenErr != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}
			httpx.WriteJSON(w, http.StatusBadGateway, map[string]any{
				"status":       "error",
				"code":         "LOOKUP_FAILED",
				"message":      "verified, but the profile lookup failed; retry resolve",
				"resolveToken": resolveToken,
			})
			return
		}
		h.writeLoginError(w, r, "verify", err)
		return
	}
	h.finishLogin(w, r, sess, out.Decision)
}

type resolveRequest struct {
	ResolveToken string `json:"resolveToken"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.ResolveToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "resolveToken is required")
		return
	}
	accountID, err := h.tokens.ValidateResolve(req.ResolveToken)
	if err != nil {
		h.auditor.LogEvent(r.Context(), "", "login_failure", "resolve_token", "resolve")
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid resolve token")
		return
	}
	sess := logindomain.NewSession()
	sess.State = logindomain.StateVerified
	sess.AccountID = accountID

	out, err := h.resolver.ResolveVerified(r.Context(), sess)
	if err != nil {
		h.writeLoginError(w, r, "resolve", err)
		return
	}
	h.finishLogin(w, r, sess, out.Decision)
}

// finishLogin issues a token pair for the resolved principal and writes the
// routing decision.
func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, sess *logindomain.Session, decision *logindomain.RoutingDecision) {
	role := "user"
	if decision.Route == logindomain.RouteAdminArea {
		role = "admin"
	}
	pair, err := h.sessions.Issue(r.Context(), sess.AccountID, role)
	if err != nil {
		h.auditor.LogEvent(r.Context(), sess.AccountID, "login_failure", "session", "")
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue session")
		return
	}
	h.auditor.LogEvent(r.Context(), sess.AccountID, "login_success", "session", string(decision.Route))
	h.emit(r, sess.AccountID, "login_success", map[string]string{"route": string(decision.Route)})

	resp := loginResponse{
		Route:        string(decision.Route),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	}
	if decision.Route == logindomain.RouteProfileCompletion {
		resp.AccountID = decision.AccountID
	}
	httpx.WriteSuccess(w, http.StatusOK, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	pair, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, sessionservice.ErrRefreshTokenReuse):
			h.auditor.LogEvent(r.Context(), "", "refresh_token_reuse", "session", "")
			httpx.WriteError(w, http.StatusUnauthorized, "TOKEN_REUSE", err.Error())
		case errors.Is(err, sessionservice.ErrInvalidRefreshToken):
			httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		default:
			httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := httpx.DecodeBody(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	sessionID := ""
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		sessionID = id.SessionID
	}
	if err := h.sessions.Logout(r.Context(), req.RefreshToken, sessionID); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) devOTPPeek(w http.ResponseWriter, r *http.Request) {
	if h.devOTP == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}
	challengeID := chi.URLParam(r, "challengeID")
	otp, phone, ok := h.devOTP.Get(r.Context(), challengeID)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no pending code for challenge")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, map[string]string{
		"challengeId": challengeID,
		"phone":       phone,
		"otp":         otp,
	})
}

func (h *Handler) writeLoginError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, loginservice.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, loginservice.ErrVerificationFailed):
		h.auditor.LogEvent(r.Context(), "", "login_failure", "otp", operation)
		httpx.WriteError(w, http.StatusUnauthorized, "VERIFICATION_FAILED", err.Error())
	case errors.Is(err, loginservice.ErrBusy):
		httpx.WriteError(w, http.StatusConflict, "BUSY", err.Error())
	case errors.Is(err, loginservice.ErrNotAwaitingCode):
		httpx.WriteError(w, http.StatusBadRequest, "NO_PENDING_CHALLENGE", err.Error())
	case errors.Is(err, loginservice.ErrChallengeDispatchFailed):
		httpx.WriteError(w, http.StatusBadGateway, "CHALLENGE_DISPATCH_FAILED", "could not send verification code")
	case errors.Is(err, loginservice.ErrLookupFailed):
		httpx.WriteError(w, http.StatusBadGateway, "LOOKUP_FAILED", "account lookup failed")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func (h *Handler) emit(r *http.Request, accountID, eventType string, metadata map[string]string) {
	var meta json.RawMessage
	if len(metadata) > 0 {
		meta, _ = json.Marshal(metadata)
	}
	telemetry.EmitAsync(h.emitter, r.Context(), &telemetrydomain.Event{
		AccountID: accountID,
		EventType: eventType,
		Source:    "server",
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	})
}
