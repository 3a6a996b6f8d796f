// Package api maps HTTP requests onto the auth and array services.
//
// Note on authentication: array and history endpoints identify the caller by
// login alone. The session token issued at registration/login is stored and
// returned but is only exercised by the auth flow itself; any caller who
// knows a login can operate on that login's history. This mirrors the
// behavior the service has always had and is deliberately left visible here
// rather than patched silently.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sorthub/cmd/identity"
	"sorthub/cmd/internal/arrays"
	"sorthub/cmd/internal/auth"
	"sorthub/cmd/internal/history"
	"sorthub/cmd/security/password"
)

// Handler wires HTTP endpoints to the auth and array services.
type Handler struct {
	log *slog.Logger
	cfg Config

	auth   *auth.Service
	arrays *arrays.Service
	feed   *history.Feed
}

// NewHandler constructs a Handler. feed may be nil; the watch endpoint then
// responds 503.
func NewHandler(log *slog.Logger, cfg Config, authSvc *auth.Service, arraySvc *arrays.Service, feed *history.Feed) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:    log,
		cfg:    cfg,
		auth:   authSvc,
		arrays: arraySvc,
		feed:   feed,
	}
}

// Register wires routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /users", h.handleRegister)
	mux.HandleFunc("POST /users/login", h.handleLogin)
	mux.HandleFunc("POST /users/logout", h.handleLogout)
	mux.HandleFunc("PATCH /users/password", h.handleChangePassword)
	mux.HandleFunc("POST /sort", h.handleSort)
	mux.HandleFunc("GET /history/{login}", h.handleHistory)
	mux.HandleFunc("DELETE /history/{login}", h.handleHistoryDelete)
	mux.HandleFunc("GET /history/{login}/watch", h.handleHistoryWatch)
	mux.HandleFunc("GET /arrays/{login}", h.handleSlice)
	mux.HandleFunc("PATCH /arrays/{login}", h.handleInsert)
	mux.HandleFunc("DELETE /arrays/{login}", h.handleRemove)
}

// ---- auth handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	u, err := h.auth.Register(r.Context(), req.Login, req.Password, req.Role)
	if err != nil {
		h.writeServiceError(w, "api.register", err)
		return
	}

	token := ""
	if u.Token != nil {
		token = *u.Token
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "user " + u.Login + " registered",
		Token:   token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.writeServiceError(w, "api.login", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "logged in",
		Token:   token,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := h.auth.Logout(r.Context(), req.Login); err != nil {
		h.writeServiceError(w, "api.logout", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	token, err := h.auth.ChangePassword(r.Context(), req.Login, req.OldPassword, req.NewPassword)
	if err != nil {
		h.writeServiceError(w, "api.change_password", err)
		return
	}

	writeJSON(w, http.StatusOK, changePasswordResponse{
		Message:  "password changed",
		NewToken: token,
	})
}

// ---- array handlers ----

func (h *Handler) handleSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserLogin) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_login is required")
		return
	}

	sorted, err := h.arrays.Sort(r.Context(), req.UserLogin, req.Array)
	if err != nil {
		h.writeServiceError(w, "api.sort", err)
		return
	}

	writeJSON(w, http.StatusOK, sortResponse{SortedArray: sorted})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.arrays.History(r.Context(), r.PathValue("login"))
	if err != nil {
		h.writeServiceError(w, "api.history", err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

func (h *Handler) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")
	if err := h.arrays.Clear(r.Context(), login); err != nil {
		h.writeServiceError(w, "api.history_delete", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "history for " + login + " deleted"})
}

func (h *Handler) handleSlice(w http.ResponseWriter, r *http.Request) {
	start, okStart := queryInt(r, "start")
	end, okEnd := queryInt(r, "end")
	if !okStart || !okEnd {
		writeError(w, http.StatusBadRequest, "invalid_request", "start and end query parameters are required integers")
		return
	}

	slice, err := h.arrays.Slice(r.Context(), r.PathValue("login"), start, end)
	if err != nil {
		h.writeServiceError(w, "api.slice", err)
		return
	}

	writeJSON(w, http.StatusOK, sliceResponse{ArraySlice: slice})
}

func (h *Handler) handleInsert(w http.ResponseWriter, r *http.Request) {
	pos := arrays.Position(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("position"))))
	element, okElem := queryInt(r, "element")
	if pos == "" || !okElem {
		writeError(w, http.StatusBadRequest, "invalid_request", "position and element query parameters are required")
		return
	}

	var index *int
	if r.URL.Query().Has("index") {
		i, ok := queryInt(r, "index")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "index must be an integer")
			return
		}
		index = &i
	}

	updated, err := h.arrays.Insert(r.Context(), r.PathValue("login"), pos, element, index)
	if err != nil {
		h.writeServiceError(w, "api.insert", err)
		return
	}

	writeJSON(w, http.StatusOK, insertResponse{UpdatedArray: updated})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	index, ok := queryInt(r, "index")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "index query parameter is a required integer")
		return
	}

	removed, err := h.arrays.DeleteByIndex(r.Context(), r.PathValue("login"), index)
	if err != nil {
		h.writeServiceError(w, "api.remove", err)
		return
	}

	writeJSON(w, http.StatusOK, removeResponse{
		Message:      "array deleted",
		DeletedArray: removed,
	})
}

// ---- helpers ----

// writeServiceError maps service error kinds onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case password.IsPolicyViolation(err):
		writeError(w, http.StatusBadRequest, "weak_password", err.Error())
	case identity.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", "login already registered")
	case identity.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
	case identity.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "login not found")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, arrays.ErrNoHistory):
		writeError(w, http.StatusNotFound, "not_found", "no history for this login")
	case errors.Is(err, arrays.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
	case errors.Is(err, arrays.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", "invalid slice range")
	case errors.Is(err, arrays.ErrInvalidIndex):
		writeError(w, http.StatusBadRequest, "invalid_index", "index out of range")
	default:
		h.log.Error(op+".fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
