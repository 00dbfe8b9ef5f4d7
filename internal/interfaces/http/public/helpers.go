package public

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ratemystudyspot/api/internal/interfaces/http/common"
	"github.com/ratemystudyspot/api/internal/spots/domain"
)

// decodeJSON reads a size-limited, strict JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return domain.NewValidationErrorf("", "malformed request body: %v", err)
	}
	return nil
}

// checkStruct runs validator tags over a request DTO and converts the
// first failure into a field-named validation error.
func (h *Handler) checkStruct(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		field := fieldErrors[0].Field()
		return domain.NewValidationErrorf(field, "%s is missing or out of range", field)
	}
	return domain.NewValidationError("", "invalid request")
}

// respondError maps application/domain errors onto the HTTP error
// taxonomy. Anything unrecognized is logged and reported as an internal
// error without detail.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		common.WriteFieldError(h.logger, w, validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrSpotNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, common.KindNotFound, "spot not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, common.KindNotFoundOrForbidden, "comment not found or not owned by user")
	case errors.Is(err, domain.ErrDuplicateSpot):
		common.WriteError(h.logger, w, http.StatusConflict, common.KindConflict, "a spot with this name and building already exists")
	default:
		h.logger.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, common.KindInternal, "request failed")
	}
}

// requireUser pulls the authenticated principal out of the context. The
// auth middleware guarantees it for registered routes; a miss here is a
// wiring bug, not a client error.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteError(h.logger, w, http.StatusInternalServerError, common.KindInternal, "authenticated user missing from context")
		return common.AuthenticatedUser{}, false
	}
	return user, true
}

func pageSlice[T any](items []T, page, limit int) []T {
	total := len(items)
	start := (page - 1) * limit
	if start >= total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end]
}
