package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratemystudyspot/api/internal/interfaces/http/common"
	spotsapp "github.com/ratemystudyspot/api/internal/spots/application"
	"github.com/ratemystudyspot/api/internal/spots/domain"
)

// updateSpotRequest is the tagged PATCH schema: it may carry a full set
// of rating dimensions, a comment, or both. Pointer fields distinguish
// "absent" from a submitted zero.
type updateSpotRequest struct {
	Quietness          *int    `json:"quietness" validate:"omitempty,min=1,max=5"`
	Comfort            *int    `json:"comfort" validate:"omitempty,min=1,max=5"`
	SeatAvailability   *int    `json:"seatAvailability" validate:"omitempty,min=1,max=5"`
	OutletAvailability *int    `json:"outletAvailability" validate:"omitempty,min=0,max=5"`
	WifiConnection     *int    `json:"wifiConnection" validate:"omitempty,min=0,max=5"`
	Comment            *string `json:"comment"`
}

func (req *updateSpotRequest) hasRating() bool {
	return req.Quietness != nil || req.Comfort != nil || req.SeatAvailability != nil ||
		req.OutletAvailability != nil || req.WifiConnection != nil
}

// dimensions requires all five fields once any rating field is present,
// reporting the first missing one by name.
func (req *updateSpotRequest) dimensions() (domain.Dimensions, error) {
	fields := []struct {
		name  string
		value *int
	}{
		{"quietness", req.Quietness},
		{"comfort", req.Comfort},
		{"seatAvailability", req.SeatAvailability},
		{"outletAvailability", req.OutletAvailability},
		{"wifiConnection", req.WifiConnection},
	}
	for _, f := range fields {
		if f.value == nil {
			return domain.Dimensions{}, domain.NewValidationErrorf(f.name, "%s is required when submitting a rating", f.name)
		}
	}
	return domain.Dimensions{
		Quietness:          *req.Quietness,
		Comfort:            *req.Comfort,
		SeatAvailability:   *req.SeatAvailability,
		OutletAvailability: *req.OutletAvailability,
		WifiConnection:     *req.WifiConnection,
	}, nil
}

func (h *Handler) spotUpdateHandler() http.HandlerFunc {
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

		var req updateSpotRequest
		if err := decodeJSON(r, &req); err != nil {
			h.respondError(w, r, err)
			return
		}
		if err := h.checkStruct(req); err != nil {
			h.respondError(w, r, err)
			return
		}
		if !req.hasRating() && req.Comment == nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, common.KindValidation, "request must include rating dimensions or a comment")
			return
		}
		// Validate the comment up front so a bad comment cannot leave a
		// half-applied request behind an already-persisted rating.
		if req.Comment != nil {
			if _, err := domain.NewComment(user.ID, *req.Comment); err != nil {
				h.respondError(w, r, err)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var view *spotsapp.SpotView

		if req.hasRating() {
			dims, err := req.dimensions()
			if err != nil {
				h.respondError(w, r, err)
				return
			}
			view, err = h.spotCommands.SubmitRating(ctx, spotsapp.SubmitRatingCommand{
				SpotID:     idParam,
				UserID:     user.ID,
				Dimensions: dims,
			})
			if err != nil {
				h.respondError(w, r, err)
				return
			}
		}

		if req.Comment != nil {
			updated, err := h.spotCommands.AddComment(ctx, spotsapp.AddCommentCommand{
				SpotID: idParam,
				UserID: user.ID,
				Text:   *req.Comment,
			})
			if err != nil {
				h.respondError(w, r, err)
				return
			}
			view = updated
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildSpotResponse(*view))
	}
}
