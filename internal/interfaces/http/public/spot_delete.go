package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratemystudyspot/api/internal/interfaces/http/common"
	spotsapp "github.com/ratemystudyspot/api/internal/spots/application"
)

type deleteCommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
}

func (h *Handler) commentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, common.KindValidation, "spot id is required")
			return
		}

		var req deleteCommentRequest
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

		view, err := h.spotCommands.DeleteComment(ctx, spotsapp.DeleteCommentCommand{
			SpotID:    idParam,
			UserID:    user.ID,
			CommentID: req.CommentID,
		})
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildSpotResponse(*view))
	}
}
