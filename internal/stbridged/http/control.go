package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	v1alpha1 "github.com/settopbox/stbridge/api/types/v1alpha1"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// SendKey emulates a remote-control key press on a box
func (h *Handler) SendKey(w http.ResponseWriter, r *http.Request) {
	boxID := chi.URLParam(r, "boxID")

	var req v1alpha1.KeyPressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewError("INVALID_INPUT", "invalid request body", "SendKey", errors.ErrInvalidInput), h.logger)
		return
	}

	if err := h.service.SendKey(boxID, req.Key); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// SetChannel tunes a box to a linear channel
func (h *Handler) SetChannel(w http.ResponseWriter, r *http.Request) {
	boxID := chi.URLParam(r, "boxID")

	var req v1alpha1.ChannelChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewError("INVALID_INPUT", "invalid request body", "SetChannel", errors.ErrInvalidInput), h.logger)
		return
	}

	if err := h.service.SetChannel(boxID, req.ChannelID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// PowerOff clears a box's playing state after a power command
func (h *Handler) PowerOff(w http.ResponseWriter, r *http.Request) {
	boxID := chi.URLParam(r, "boxID")

	if err := h.service.PowerOff(boxID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
