package domain

import "time"

// Spot represents a study-location listing together with its embedded
// ratings and comments. Ratings and comments have no lifecycle of their
// own; they live and die with the parent spot.
type Spot struct {
	ID        string
	Name      string
	Building  string
	Ratings   []Rating
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is a directory entry used to resolve rater/commenter display info.
type User struct {
	ID    string
	Name  string
	Email string
}

// RatingFor returns the rating owned by userID, if any. A spot holds at
// most one rating per user.
func (s *Spot) RatingFor(userID string) (Rating, bool) {
	for _, r := range s.Ratings {
		if r.UserID == userID {
			return r, true
		}
	}
	return Rating{}, false
}

// CommentByID returns the comment with the given synthetic id, if any.
func (s *Spot) CommentByID(id string) (Comment, bool) {
	for _, c := range s.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// AverageOverall returns the mean of all stored overall ratings, or nil
// when the spot has no ratings yet.
func (s *Spot) AverageOverall() *float64 {
	if len(s.Ratings) == 0 {
		return nil
	}
	sum := 0
	for _, r := range s.Ratings {
		sum += r.OverallRating
	}
	avg := float64(sum) / float64(len(s.Ratings))
	return &avg
}
