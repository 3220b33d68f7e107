// Package httpadapter exposes the chat backend over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
	"github.com/dkoval/hotelreg-assistant/internal/observability/metrics"
)

type Config struct {
	TokenTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        *metrics.HTTPServerMetrics
}

type Router struct {
	auth     ports.AuthService
	chat     ports.ChatService
	pipeline ports.QueryPipeline
	reindex  ports.ReindexQueue

	metrics  *metrics.HTTPServerMetrics
	limiter  *ipRateLimiter
	tokenTTL time.Duration
}

func NewRouter(
	auth ports.AuthService,
	chat ports.ChatService,
	pipeline ports.QueryPipeline,
	reindex ports.ReindexQueue,
	cfg Config,
) *Router {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Router{
		auth:     auth,
		chat:     chat,
		pipeline: pipeline,
		reindex:  reindex,
		metrics:  cfg.Metrics,
		limiter:  newIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		tokenTTL: tokenTTL,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/auth/register", rt.register)
	mux.HandleFunc("/api/auth/login", rt.login)
	mux.HandleFunc("/api/auth/logout", rt.logout)
	mux.HandleFunc("/api/auth/me", rt.authenticated(rt.me))
	mux.HandleFunc("/api/chat-sessions", rt.authenticated(rt.sessions))
	mux.HandleFunc("/api/chat-sessions/", rt.authenticated(rt.sessionByID))
	mux.HandleFunc("/api/messages", rt.authenticated(rt.messages))
	mux.HandleFunc("/api/messages/", rt.authenticated(rt.listMessages))
	mux.HandleFunc("/api/rag-query", rt.authenticated(rt.ragQuery))
	mux.HandleFunc("/v1/admin/reindex", rt.authenticated(rt.requestReindex))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = rt.limiter.middleware(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Region   string `json:"region"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := rt.auth.Register(r.Context(), req.Email, req.Username, req.Password, req.Region)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := rt.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (rt *Router) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (rt *Router) sessions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		sessions, err := rt.chat.ListSessions(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	case http.MethodPost:
		var req struct {
			Title string `json:"title"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		session, err := rt.chat.CreateSession(r.Context(), user.ID, req.Title)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) sessionByID(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/chat-sessions/")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req struct {
			Title string `json:"title"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := rt.chat.RenameSession(r.Context(), user.ID, sessionID, req.Title); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		if err := rt.chat.DeleteSession(r.Context(), user.ID, sessionID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.postMessage(w, r)
	case http.MethodGet:
		rt.writeSessionMessages(w, r, r.URL.Query().Get("chat_session_id"))
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) postMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatSessionID string `json:"chat_session_id"`
		Content       string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user := userFromContext(r.Context())
	started := time.Now()
	userMsg, assistantMsg, err := rt.chat.PostMessage(r.Context(), user, req.ChatSessionID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil && assistantMsg.Metadata != nil {
		rt.metrics.RecordQuery(
			"api",
			string(assistantMsg.Metadata.ResponseType),
			assistantMsg.Metadata.Confidence,
			len(assistantMsg.Metadata.Sources),
			time.Since(started),
		)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user_message":      userMsg,
		"assistant_message": assistantMsg,
	})
}

func (rt *Router) listMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rt.writeSessionMessages(w, r, strings.TrimPrefix(r.URL.Path, "/api/messages/"))
}

func (rt *Router) writeSessionMessages(w http.ResponseWriter, r *http.Request, sessionID string) {
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	user := userFromContext(r.Context())
	messages, err := rt.chat.ListMessages(r.Context(), user.ID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (rt *Router) ragQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	user := userFromContext(r.Context())
	started := time.Now()
	result, err := rt.pipeline.ProcessQuery(r.Context(), req.Query, user.Region, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordQuery("api", string(result.ResponseType), result.Confidence, len(result.Sources), time.Since(started))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) requestReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	user := userFromContext(r.Context())
	if err := rt.reindex.PublishReindexRequested(r.Context(), "admin request by "+user.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindex requested"})
}

func (rt *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(rt.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
