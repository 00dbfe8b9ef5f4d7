package application

import (
	"context"
	"strings"
	"time"

	"github.com/ratemystudyspot/api/internal/spots/domain"
)

// SpotRepository abstracts document-store access to the spot aggregate.
// Mutations against embedded collections must be atomic per document so
// concurrent writers cannot lose each other's updates.
type SpotRepository interface {
	Find(ctx context.Context, paging Paging) ([]domain.Spot, error)
	FindByID(ctx context.Context, id string) (*domain.Spot, error)
	Create(ctx context.Context, spot *domain.Spot) error
	ExistsByNameAndBuilding(ctx context.Context, name, building string) (bool, error)
	UpsertRating(ctx context.Context, spotID string, rating domain.Rating) (*domain.Spot, error)
	AppendComment(ctx context.Context, spotID string, comment domain.Comment) (*domain.Spot, error)
	RemoveComment(ctx context.Context, spotID, commentID, userID string) (*domain.Spot, error)
}

// UserDirectory resolves stable user ids to display name and email.
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// SpotView pairs a spot with the directory entries of everyone who rated
// or commented on it, for display joins at the boundary.
type SpotView struct {
	Spot  domain.Spot
	Users map[string]domain.User
}

// SpotQueryService describes read use-cases.
type SpotQueryService interface {
	List(ctx context.Context, paging Paging) ([]SpotView, error)
	Detail(ctx context.Context, id string) (*SpotView, error)
}

// SpotCommandService handles writing use-cases.
type SpotCommandService interface {
	Create(ctx context.Context, cmd CreateSpotCommand) (*SpotView, error)
	SubmitRating(ctx context.Context, cmd SubmitRatingCommand) (*SpotView, error)
	AddComment(ctx context.Context, cmd AddCommentCommand) (*SpotView, error)
	DeleteComment(ctx context.Context, cmd DeleteCommentCommand) (*SpotView, error)
}

// CreateSpotCommand captures a new listing submission.
type CreateSpotCommand struct {
	Name     string
	Building string
	UserID   string
}

// SubmitRatingCommand captures one user's rating of a spot.
type SubmitRatingCommand struct {
	SpotID     string
	UserID     string
	Dimensions domain.Dimensions
}

// AddCommentCommand captures a comment submission.
type AddCommentCommand struct {
	SpotID string
	UserID string
	Text   string
}

// DeleteCommentCommand identifies a comment for owner-only deletion.
type DeleteCommentCommand struct {
	SpotID    string
	UserID    string
	CommentID string
}

// NewSpotCommandService wires the command use-cases to their ports.
func NewSpotCommandService(spots SpotRepository, users UserDirectory) SpotCommandService {
	return &spotCommandService{spots: spots, users: users}
}

type spotCommandService struct {
	spots SpotRepository
	users UserDirectory
}

// Create validates the listing and rejects duplicate (name, building)
// pairs before persisting.
func (s *spotCommandService) Create(ctx context.Context, cmd CreateSpotCommand) (*SpotView, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name must not be blank")
	}
	building := strings.TrimSpace(cmd.Building)
	if building == "" {
		return nil, domain.NewValidationError("building", "building must not be blank")
	}

	exists, err := s.spots.ExistsByNameAndBuilding(ctx, name, building)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateSpot
	}

	now := time.Now().UTC()
	spot := &domain.Spot{
		Name:      name,
		Building:  building,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.spots.Create(ctx, spot); err != nil {
		return nil, err
	}
	return s.resolveView(ctx, spot)
}

// SubmitRating validates the dimensions, derives the overall score and
// replaces any prior rating by the same user in one atomic upsert.
func (s *spotCommandService) SubmitRating(ctx context.Context, cmd SubmitRatingCommand) (*SpotView, error) {
	rating, err := domain.NewRating(cmd.UserID, cmd.Dimensions)
	if err != nil {
		return nil, err
	}
	spot, err := s.spots.UpsertRating(ctx, cmd.SpotID, rating)
	if err != nil {
		return nil, err
	}
	return s.resolveView(ctx, spot)
}

// AddComment appends a fresh comment; unlike ratings there is no per-user
// cap on comments.
func (s *spotCommandService) AddComment(ctx context.Context, cmd AddCommentCommand) (*SpotView, error) {
	comment, err := domain.NewComment(cmd.UserID, cmd.Text)
	if err != nil {
		return nil, err
	}
	spot, err := s.spots.AppendComment(ctx, cmd.SpotID, comment)
	if err != nil {
		return nil, err
	}
	return s.resolveView(ctx, spot)
}

// DeleteComment removes the comment only when id and owner both match.
func (s *spotCommandService) DeleteComment(ctx context.Context, cmd DeleteCommentCommand) (*SpotView, error) {
	if strings.TrimSpace(cmd.CommentID) == "" {
		return nil, domain.NewValidationError("commentId", "commentId is required")
	}
	spot, err := s.spots.RemoveComment(ctx, cmd.SpotID, cmd.CommentID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	return s.resolveView(ctx, spot)
}

func (s *spotCommandService) resolveView(ctx context.Context, spot *domain.Spot) (*SpotView, error) {
	users, err := resolveSubmitters(ctx, s.users, []domain.Spot{*spot})
	if err != nil {
		return nil, err
	}
	return &SpotView{Spot: *spot, Users: users}, nil
}

// resolveSubmitters collects every rater/commenter id across the given
// spots and loads their directory entries in one batch.
func resolveSubmitters(ctx context.Context, directory UserDirectory, spots []domain.Spot) (map[string]domain.User, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, spot := range spots {
		for _, r := range spot.Ratings {
			if _, ok := seen[r.UserID]; !ok {
				seen[r.UserID] = struct{}{}
				ids = append(ids, r.UserID)
			}
		}
		for _, c := range spot.Comments {
			if _, ok := seen[c.UserID]; !ok {
				seen[c.UserID] = struct{}{}
				ids = append(ids, c.UserID)
			}
		}
	}
	if len(ids) == 0 {
		return map[string]domain.User{}, nil
	}
	return directory.FindByIDs(ctx, ids)
}
