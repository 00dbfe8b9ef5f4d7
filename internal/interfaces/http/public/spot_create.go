package public

import (
	"context"
	"net/http"
	"time"

	"github.com/ratemystudyspot/api/internal/interfaces/http/common"
	spotsapp "github.com/ratemystudyspot/api/internal/spots/application"
)

type createSpotRequest struct {
	Name     string `json:"name" validate:"required"`
	Building string `json:"building" validate:"required"`
}

func (h *Handler) spotCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		var req createSpotRequest
		if err := decodeJSON(r, &req); err != nil {
			h.respondError(w, r, err)
			return
		}
		if err := h.checkStruct(req); err != nil {
			h.respondError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := h.spotCommands.Create(ctx, spotsapp.CreateSpotCommand{
			Name:     req.Name,
			Building: req.Building,
			UserID:   user.ID,
		})
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildSpotResponse(*view))
	}
}
