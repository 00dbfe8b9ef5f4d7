package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratemystudyspot/api/internal/spots/domain"
)

// fakeSpotRepository mirrors the document-store semantics in memory:
// one rating per user, owner-checked comment removal.
type fakeSpotRepository struct {
	spots  map[string]*domain.Spot
	nextID int
}

func newFakeSpotRepository() *fakeSpotRepository {
	return &fakeSpotRepository{spots: make(map[string]*domain.Spot)}
}

func (f *fakeSpotRepository) Find(_ context.Context, _ Paging) ([]domain.Spot, error) {
	out := make([]domain.Spot, 0, len(f.spots))
	for _, s := range f.spots {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSpotRepository) FindByID(_ context.Context, id string) (*domain.Spot, error) {
	spot, ok := f.spots[id]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	cp := *spot
	return &cp, nil
}

func (f *fakeSpotRepository) Create(_ context.Context, spot *domain.Spot) error {
	f.nextID++
	spot.ID = fmt.Sprintf("spot-%d", f.nextID)
	cp := *spot
	f.spots[spot.ID] = &cp
	return nil
}

func (f *fakeSpotRepository) ExistsByNameAndBuilding(_ context.Context, name, building string) (bool, error) {
	for _, s := range f.spots {
		if s.Name == name && s.Building == building {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSpotRepository) UpsertRating(_ context.Context, spotID string, rating domain.Rating) (*domain.Spot, error) {
	spot, ok := f.spots[spotID]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	kept := spot.Ratings[:0]
	for _, r := range spot.Ratings {
		if r.UserID != rating.UserID {
			kept = append(kept, r)
		}
	}
	spot.Ratings = append(kept, rating)
	spot.UpdatedAt = time.Now().UTC()
	cp := *spot
	return &cp, nil
}

func (f *fakeSpotRepository) AppendComment(_ context.Context, spotID string, comment domain.Comment) (*domain.Spot, error) {
	spot, ok := f.spots[spotID]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	spot.Comments = append(spot.Comments, comment)
	spot.UpdatedAt = time.Now().UTC()
	cp := *spot
	return &cp, nil
}

func (f *fakeSpotRepository) RemoveComment(_ context.Context, spotID, commentID, userID string) (*domain.Spot, error) {
	spot, ok := f.spots[spotID]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	for i, c := range spot.Comments {
		if c.ID == commentID && c.UserID == userID {
			spot.Comments = append(spot.Comments[:i], spot.Comments[i+1:]...)
			cp := *spot
			return &cp, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

type fakeUserDirectory struct {
	users map[string]domain.User
}

func (f *fakeUserDirectory) FindByIDs(_ context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newTestServices() (*fakeSpotRepository, SpotCommandService, SpotQueryService) {
	repo := newFakeSpotRepository()
	directory := &fakeUserDirectory{users: map[string]domain.User{
		"user-1": {ID: "user-1", Name: "Avery", Email: "avery@example.edu"},
		"user-2": {ID: "user-2", Name: "Jordan", Email: "jordan@example.edu"},
	}}
	return repo, NewSpotCommandService(repo, directory), NewSpotQueryService(repo, directory)
}

func TestCreateSpot(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	view, err := commands.Create(ctx, CreateSpotCommand{Name: "  Quiet Reading Room ", Building: "Main Library", UserID: "user-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, view.Spot.ID)
	assert.Equal(t, "Quiet Reading Room", view.Spot.Name)
	assert.Equal(t, "Main Library", view.Spot.Building)
	assert.Empty(t, view.Spot.Ratings)
	assert.Empty(t, view.Spot.Comments)
}

func TestCreateSpotValidation(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	tests := []struct {
		name      string
		cmd       CreateSpotCommand
		wantField string
	}{
		{"blank name", CreateSpotCommand{Name: "   ", Building: "Main Library", UserID: "user-1"}, "name"},
		{"blank building", CreateSpotCommand{Name: "Reading Room", Building: "", UserID: "user-1"}, "building"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.Create(ctx, tt.cmd)
			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestCreateSpotRejectsDuplicate(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	_, err := commands.Create(ctx, CreateSpotCommand{Name: "Atrium Tables", Building: "Student Union", UserID: "user-1"})
	require.NoError(t, err)

	_, err = commands.Create(ctx, CreateSpotCommand{Name: "Atrium Tables", Building: "Student Union", UserID: "user-2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSpot)

	// Same name in a different building is a different spot.
	_, err = commands.Create(ctx, CreateSpotCommand{Name: "Atrium Tables", Building: "Science Center", UserID: "user-2"})
	assert.NoError(t, err)
}

func TestSubmitRatingReplacesPriorRating(t *testing.T) {
	repo, commands, _ := newTestServices()
	ctx := context.Background()

	created, err := commands.Create(ctx, CreateSpotCommand{Name: "Window Booths", Building: "Law Library", UserID: "user-1"})
	require.NoError(t, err)
	spotID := created.Spot.ID

	first := domain.Dimensions{Quietness: 2, Comfort: 2, SeatAvailability: 2, OutletAvailability: 2, WifiConnection: 2}
	view, err := commands.SubmitRating(ctx, SubmitRatingCommand{SpotID: spotID, UserID: "user-1", Dimensions: first})
	require.NoError(t, err)
	require.Len(t, view.Spot.Ratings, 1)
	assert.Equal(t, 2, view.Spot.Ratings[0].OverallRating)

	// Resubmission by the same user replaces, never appends.
	second := domain.Dimensions{Quietness: 5, Comfort: 5, SeatAvailability: 5, OutletAvailability: 5, WifiConnection: 5}
	view, err = commands.SubmitRating(ctx, SubmitRatingCommand{SpotID: spotID, UserID: "user-1", Dimensions: second})
	require.NoError(t, err)
	require.Len(t, view.Spot.Ratings, 1)
	assert.Equal(t, 5, view.Spot.Ratings[0].OverallRating)

	// A different user's rating is an independent entry.
	view, err = commands.SubmitRating(ctx, SubmitRatingCommand{SpotID: spotID, UserID: "user-2", Dimensions: first})
	require.NoError(t, err)
	assert.Len(t, view.Spot.Ratings, 2)

	stored, err := repo.FindByID(ctx, spotID)
	require.NoError(t, err)
	rating, ok := stored.RatingFor("user-1")
	require.True(t, ok)
	assert.Equal(t, 5, rating.OverallRating)
}

func TestSubmitRatingInvalidDimensions(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	created, err := commands.Create(ctx, CreateSpotCommand{Name: "Map Room", Building: "Main Library", UserID: "user-1"})
	require.NoError(t, err)

	_, err = commands.SubmitRating(ctx, SubmitRatingCommand{
		SpotID:     created.Spot.ID,
		UserID:     "user-1",
		Dimensions: domain.Dimensions{Quietness: 6, Comfort: 3, SeatAvailability: 3, OutletAvailability: 3, WifiConnection: 3},
	})
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "quietness", validationErr.Field)
}

func TestSubmitRatingUnknownSpot(t *testing.T) {
	_, commands, _ := newTestServices()

	_, err := commands.SubmitRating(context.Background(), SubmitRatingCommand{
		SpotID:     "missing",
		UserID:     "user-1",
		Dimensions: domain.Dimensions{Quietness: 3, Comfort: 3, SeatAvailability: 3, OutletAvailability: 3, WifiConnection: 3},
	})
	assert.ErrorIs(t, err, domain.ErrSpotNotFound)
}

func TestAddAndDeleteComment(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	created, err := commands.Create(ctx, CreateSpotCommand{Name: "Basement Stacks", Building: "Main Library", UserID: "user-1"})
	require.NoError(t, err)
	spotID := created.Spot.ID

	view, err := commands.AddComment(ctx, AddCommentCommand{SpotID: spotID, UserID: "user-1", Text: "dead silent in the mornings"})
	require.NoError(t, err)
	require.Len(t, view.Spot.Comments, 1)
	commentID := view.Spot.Comments[0].ID

	view, err = commands.DeleteComment(ctx, DeleteCommentCommand{SpotID: spotID, UserID: "user-1", CommentID: commentID})
	require.NoError(t, err)
	assert.Empty(t, view.Spot.Comments)
}

func TestDeleteCommentOwnershipEnforced(t *testing.T) {
	_, commands, _ := newTestServices()
	ctx := context.Background()

	created, err := commands.Create(ctx, CreateSpotCommand{Name: "Rooftop Terrace", Building: "Student Union", UserID: "user-1"})
	require.NoError(t, err)
	spotID := created.Spot.ID

	view, err := commands.AddComment(ctx, AddCommentCommand{SpotID: spotID, UserID: "user-1", Text: "gets windy"})
	require.NoError(t, err)
	commentID := view.Spot.Comments[0].ID

	// A non-owner gets the same error as a missing comment.
	_, err = commands.DeleteComment(ctx, DeleteCommentCommand{SpotID: spotID, UserID: "user-2", CommentID: commentID})
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	_, err = commands.DeleteComment(ctx, DeleteCommentCommand{SpotID: spotID, UserID: "user-1", CommentID: "no-such-comment"})
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	// The comment is untouched after both failed attempts.
	detail, err := commands.DeleteComment(ctx, DeleteCommentCommand{SpotID: spotID, UserID: "user-1", CommentID: commentID})
	require.NoError(t, err)
	assert.Empty(t, detail.Spot.Comments)
}

func TestDeleteCommentRequiresCommentID(t *testing.T) {
	_, commands, _ := newTestServices()

	_, err := commands.DeleteComment(context.Background(), DeleteCommentCommand{SpotID: "spot-1", UserID: "user-1", CommentID: "   "})
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "commentId", validationErr.Field)
}

func TestQueryServiceResolvesSubmitters(t *testing.T) {
	_, commands, queries := newTestServices()
	ctx := context.Background()

	created, err := commands.Create(ctx, CreateSpotCommand{Name: "Cafe Mezzanine", Building: "Student Union", UserID: "user-1"})
	require.NoError(t, err)
	spotID := created.Spot.ID

	_, err = commands.SubmitRating(ctx, SubmitRatingCommand{
		SpotID:     spotID,
		UserID:     "user-1",
		Dimensions: domain.Dimensions{Quietness: 3, Comfort: 4, SeatAvailability: 2, OutletAvailability: 0, WifiConnection: 5},
	})
	require.NoError(t, err)
	_, err = commands.AddComment(ctx, AddCommentCommand{SpotID: spotID, UserID: "user-2", Text: "good coffee nearby"})
	require.NoError(t, err)

	detail, err := queries.Detail(ctx, spotID)
	require.NoError(t, err)
	assert.Equal(t, "Avery", detail.Users["user-1"].Name)
	assert.Equal(t, "Jordan", detail.Users["user-2"].Name)

	list, err := queries.List(ctx, Paging{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, spotID, list[0].Spot.ID)
}

func TestQueryServiceDetailUnknownSpot(t *testing.T) {
	_, _, queries := newTestServices()

	_, err := queries.Detail(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSpotNotFound)
}
