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

func (h *Handler) spotListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageLimit)

		views, err := h.spotQueries.List(ctx, spotsapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		total := len(views)
		items := make([]spotResponse, 0, limit)
		for _, view := range pageSlice(views, page, limit) {
			items = append(items, buildSpotResponse(view))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, spotListResponse{
			Items: items,
			Page:  page,
			Limit: limit,
			Total: total,
		})
	}
}

func (h *Handler) spotDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, common.KindValidation, "spot id is required")
			return
		}

		view, err := h.spotQueries.Detail(ctx, idParam)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildSpotResponse(*view))
	}
}

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
