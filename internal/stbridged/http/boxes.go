package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	v1alpha1 "github.com/settopbox/stbridge/api/types/v1alpha1"
	"github.com/settopbox/stbridge/internal/stbridged/box"
)

// ListBoxes returns every tracked box
func (h *Handler) ListBoxes(w http.ResponseWriter, r *http.Request) {
	snapshots := h.service.Boxes()

	list := v1alpha1.BoxList{
		TypeMeta: v1alpha1.TypeMeta{
			Kind:       "BoxList",
			APIVersion: "v1alpha1",
		},
		Items: make([]v1alpha1.Box, 0, len(snapshots)),
	}
	for _, s := range snapshots {
		list.Items = append(list.Items, toAPIBox(s))
	}

	writeJSON(w, http.StatusOK, list)
}

// GetBox returns one tracked box by id
func (h *Handler) GetBox(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Box(chi.URLParam(r, "boxID"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toAPIBox(snapshot))
}

func toAPIBox(s box.Snapshot) v1alpha1.Box {
	return v1alpha1.Box{
		TypeMeta: v1alpha1.TypeMeta{
			Kind:       "Box",
			APIVersion: "v1alpha1",
		},
		ID:        s.ID,
		Name:      s.Name,
		State:     v1alpha1.BoxState(s.State),
		Available: s.Available,
		PlayingInfo: v1alpha1.PlayingInfo{
			SourceType:   v1alpha1.SourceKind(s.Info.SourceType),
			ChannelID:    s.Info.ChannelID,
			ChannelTitle: s.Info.ChannelTitle,
			Title:        s.Info.Title,
			Image:        s.Info.Image,
			Paused:       s.Info.Paused,
		},
		UpdatedAt: s.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
