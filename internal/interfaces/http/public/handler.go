package public

import (
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	spotsapp "github.com/ratemystudyspot/api/internal/spots/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger       *log.Logger
	spotQueries  spotsapp.SpotQueryService
	spotCommands spotsapp.SpotCommandService
	validate     *validator.Validate
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       *log.Logger
	SpotQueries  spotsapp.SpotQueryService
	SpotCommands spotsapp.SpotCommandService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation errors, not Go field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		logger:       cfg.Logger,
		spotQueries:  cfg.SpotQueries,
		spotCommands: cfg.SpotCommands,
		validate:     validate,
	}
}

// Register mounts all public routes onto the router. Mutating routes go
// through the auth middleware; reads stay anonymous.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/spots", h.spotListHandler())
	r.Get("/spots/{id}", h.spotDetailHandler())
	r.With(authMiddleware).Post("/spots", h.spotCreateHandler())
	r.With(authMiddleware).Patch("/spots/{id}", h.spotUpdateHandler())
	r.With(authMiddleware).Delete("/spots/{id}", h.commentDeleteHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}
