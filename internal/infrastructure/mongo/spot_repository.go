package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ratemystudyspot/api/internal/spots/application"
	"github.com/ratemystudyspot/api/internal/spots/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SpotRepository implements application.SpotRepository using MongoDB.
// Each mutation is one atomic update against a single spot document.
type SpotRepository struct {
	spots *mongo.Collection
}

// NewSpotRepository creates a Mongo-backed spot repository.
func NewSpotRepository(db *mongo.Database, collectionName string) *SpotRepository {
	return &SpotRepository{spots: db.Collection(collectionName)}
}

// Find returns spots sorted newest first. Pagination is applied by the
// caller over the full result.
func (r *SpotRepository) Find(ctx context.Context, _ application.Paging) ([]domain.Spot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.spots.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	spots := make([]domain.Spot, 0)
	for cursor.Next(ctx) {
		var doc SpotDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		spots = append(spots, mapSpotDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return spots, nil
}

// FindByID returns a single spot by its identifier.
func (r *SpotRepository) FindByID(ctx context.Context, id string) (*domain.Spot, error) {
	objectID, err := spotObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc SpotDocument
	if err := r.spots.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSpotNotFound
		}
		return nil, err
	}
	spot := mapSpotDocument(doc)
	return &spot, nil
}

// Create inserts a new spot document and writes the assigned id back.
func (r *SpotRepository) Create(ctx context.Context, spot *domain.Spot) error {
	doc := SpotDocument{
		ID:        primitive.NewObjectID(),
		Name:      spot.Name,
		Building:  spot.Building,
		Ratings:   mapRatingDocuments(spot.Ratings),
		Comments:  mapCommentDocuments(spot.Comments),
		CreatedAt: spot.CreatedAt,
		UpdatedAt: spot.UpdatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}

	if _, err := r.spots.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSpot
		}
		return err
	}
	spot.ID = doc.ID.Hex()
	spot.CreatedAt = doc.CreatedAt
	spot.UpdatedAt = doc.UpdatedAt
	return nil
}

// ExistsByNameAndBuilding reports whether a listing with the same name and
// building is already present. A unique index on (name, building) backs
// this check against races; see cmd/seed.
func (r *SpotRepository) ExistsByNameAndBuilding(ctx context.Context, name, building string) (bool, error) {
	filter := bson.M{
		"name":     strings.TrimSpace(name),
		"building": strings.TrimSpace(building),
	}
	count, err := r.spots.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertRating replaces any rating owned by the same user and appends the
// new one in a single aggregation-pipeline update, so two concurrent
// submissions by different users cannot lose each other's write.
func (r *SpotRepository) UpsertRating(ctx context.Context, spotID string, rating domain.Rating) (*domain.Spot, error) {
	objectID, err := spotObjectID(spotID)
	if err != nil {
		return nil, err
	}

	newDoc := mapRatingDocument(rating)
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratings": bson.M{"$concatArrays": bson.A{
				bson.M{"$filter": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
					"as":    "r",
					"cond":  bson.M{"$ne": bson.A{"$$r.userId", rating.UserID}},
				}},
				bson.A{newDoc},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SpotDocument
	if err := r.spots.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, pipeline, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSpotNotFound
		}
		return nil, err
	}
	spot := mapSpotDocument(updated)
	return &spot, nil
}

// AppendComment pushes a new comment onto the spot document.
func (r *SpotRepository) AppendComment(ctx context.Context, spotID string, comment domain.Comment) (*domain.Spot, error) {
	objectID, err := spotObjectID(spotID)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$push": bson.M{"comments": mapCommentDocument(comment)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SpotDocument
	if err := r.spots.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSpotNotFound
		}
		return nil, err
	}
	spot := mapSpotDocument(updated)
	return &spot, nil
}

// RemoveComment pulls the comment matching both id and owner. A matched
// spot with nothing pulled means the comment was missing or foreign; the
// two cases are deliberately indistinguishable.
func (r *SpotRepository) RemoveComment(ctx context.Context, spotID, commentID, userID string) (*domain.Spot, error) {
	objectID, err := spotObjectID(spotID)
	if err != nil {
		return nil, err
	}

	// No $set of updatedAt here: ModifiedCount must stay zero when the
	// pull matches nothing, so ownership misses can be told apart.
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"id": commentID, "userId": userID}},
	}
	result, err := r.spots.UpdateByID(ctx, objectID, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrSpotNotFound
	}
	if result.ModifiedCount == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return r.FindByID(ctx, spotID)
}

// spotObjectID parses an id parameter, treating malformed ids the same as
// absent documents.
func spotObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, domain.ErrSpotNotFound
	}
	return objectID, nil
}

func mapSpotDocument(doc SpotDocument) domain.Spot {
	ratings := make([]domain.Rating, 0, len(doc.Ratings))
	for _, r := range doc.Ratings {
		ratings = append(ratings, domain.Rating{
			UserID:             r.UserID,
			Quietness:          r.Quietness,
			Comfort:            r.Comfort,
			SeatAvailability:   r.SeatAvailability,
			OutletAvailability: r.OutletAvailability,
			WifiConnection:     r.WifiConnection,
			OverallRating:      r.OverallRating,
		})
	}

	comments := make([]domain.Comment, 0, len(doc.Comments))
	for _, c := range doc.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return domain.Spot{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Building:  doc.Building,
		Ratings:   ratings,
		Comments:  comments,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func mapRatingDocument(rating domain.Rating) RatingDocument {
	return RatingDocument{
		UserID:             rating.UserID,
		Quietness:          rating.Quietness,
		Comfort:            rating.Comfort,
		SeatAvailability:   rating.SeatAvailability,
		OutletAvailability: rating.OutletAvailability,
		WifiConnection:     rating.WifiConnection,
		OverallRating:      rating.OverallRating,
	}
}

func mapRatingDocuments(ratings []domain.Rating) []RatingDocument {
	if len(ratings) == 0 {
		return nil
	}
	result := make([]RatingDocument, 0, len(ratings))
	for _, r := range ratings {
		result = append(result, mapRatingDocument(r))
	}
	return result
}

func mapCommentDocument(comment domain.Comment) CommentDocument {
	return CommentDocument{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func mapCommentDocuments(comments []domain.Comment) []CommentDocument {
	if len(comments) == 0 {
		return nil
	}
	result := make([]CommentDocument, 0, len(comments))
	for _, c := range comments {
		result = append(result, mapCommentDocument(c))
	}
	return result
}
