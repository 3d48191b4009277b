package faq

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/pkg/utils"
)

// Handler serves the FAQ bank to the site's FAQ page.
type Handler struct {
	store faq.Store
}

// New creates the FAQ handler.
func New(store faq.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the FAQ routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/faqs", h.handleListFAQs)
}

func (h *Handler) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"count": h.store.Len(),
		"items": h.store.List(),
	})
}
