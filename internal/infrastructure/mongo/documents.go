package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpotDocument is the MongoDB schema of a study spot, with ratings and
// comments embedded in the parent document.
type SpotDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Building  string             `bson:"building"`
	Ratings   []RatingDocument   `bson:"ratings,omitempty"`
	Comments  []CommentDocument  `bson:"comments,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// RatingDocument is one user's embedded rating. userId is the JWT subject,
// stored as a plain string.
type RatingDocument struct {
	UserID             string `bson:"userId"`
	Quietness          int    `bson:"quietness"`
	Comfort            int    `bson:"comfort"`
	SeatAvailability   int    `bson:"seatAvailability"`
	OutletAvailability int    `bson:"outletAvailability"`
	WifiConnection     int    `bson:"wifiConnection"`
	OverallRating      int    `bson:"overallRating"`
}

// CommentDocument is an embedded comment with a synthetic id.
type CommentDocument struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"userId"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

// UserDocument is a directory entry from the users collection, maintained
// by the auth provider and read here only for display joins.
type UserDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}
