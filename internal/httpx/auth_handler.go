package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, err := h.Backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeBackendErr(w, err)
		return
	}

	sess := sessionFrom(r)
	sess.Auth.Login(token)
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Auth.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Backend.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"registered": true})
}
