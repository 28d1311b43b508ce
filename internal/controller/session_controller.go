// internal/controller/session_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/waha"
)

// SessionController proxies session management through to the gateway so
// the frontend never needs the gateway API key.
type SessionController struct {
	Waha           *waha.Client
	DefaultSession string
}

func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	raw, err := c.Waha.ListSessions()
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, json.RawMessage(raw))
}

func (c *SessionController) SessionStatus(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "sessionName")
	if session == "" {
		session = c.DefaultSession
	}

	raw, err := c.Waha.SessionStatus(session)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, json.RawMessage(raw))
}

func (c *SessionController) QRCode(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		session = c.DefaultSession
	}

	png, err := c.Waha.QRCode(session)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Config exposes the non-secret runtime configuration the frontend needs.
func (c *SessionController) Config(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"waha_url":        c.Waha.BaseURL,
		"default_session": c.DefaultSession,
	})
}
