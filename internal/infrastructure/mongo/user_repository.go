package mongo

import (
	"context"

	"github.com/ratemystudyspot/api/internal/spots/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository implements application.UserDirectory against the users
// collection owned by the auth provider. Read-only from this service.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a Mongo-backed user directory.
func NewUserRepository(db *mongo.Database, collectionName string) *UserRepository {
	return &UserRepository{users: db.Collection(collectionName)}
}

// FindByIDs loads directory entries for the given ids in one batch. Ids
// that are not valid ObjectIDs or have no document are silently omitted;
// callers fall back to a placeholder for missing submitters.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	result := make(map[string]domain.User, len(ids))

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return result, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result[doc.ID.Hex()] = domain.User{
			ID:    doc.ID.Hex(),
			Name:  doc.Name,
			Email: doc.Email,
		}
	}
	return result, cursor.Err()
}
