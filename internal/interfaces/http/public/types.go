package public

import (
	"math"
	"time"

	spotsapp "github.com/ratemystudyspot/api/internal/spots/application"
	"github.com/ratemystudyspot/api/internal/spots/domain"
)

type spotListResponse struct {
	Items []spotResponse `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

type spotResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Building          string            `json:"building"`
	AverageRating     *float64          `json:"averageRating"`
	RatingCount       int               `json:"ratingCount"`
	DimensionAverages dimensionAverages `json:"dimensionAverages"`
	Ratings           []ratingResponse  `json:"ratings"`
	Comments          []commentResponse `json:"comments"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type dimensionAverages struct {
	Quietness          *float64 `json:"quietness"`
	Comfort            *float64 `json:"comfort"`
	SeatAvailability   *float64 `json:"seatAvailability"`
	OutletAvailability *float64 `json:"outletAvailability"`
	WifiConnection     *float64 `json:"wifiConnection"`
}

type ratingResponse struct {
	User               userResponse `json:"user"`
	Quietness          int          `json:"quietness"`
	Comfort            int          `json:"comfort"`
	SeatAvailability   int          `json:"seatAvailability"`
	OutletAvailability int          `json:"outletAvailability"`
	WifiConnection     int          `json:"wifiConnection"`
	OverallRating      int          `json:"overallRating"`
}

type commentResponse struct {
	ID        string       `json:"id"`
	User      userResponse `json:"user"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// buildSpotResponse converts a resolved spot view to its API shape,
// joining rater/commenter ids against the user directory entries.
func buildSpotResponse(view spotsapp.SpotView) spotResponse {
	spot := view.Spot

	ratings := make([]ratingResponse, 0, len(spot.Ratings))
	for _, r := range spot.Ratings {
		ratings = append(ratings, ratingResponse{
			User:               buildUserResponse(r.UserID, view.Users),
			Quietness:          r.Quietness,
			Comfort:            r.Comfort,
			SeatAvailability:   r.SeatAvailability,
			OutletAvailability: r.OutletAvailability,
			WifiConnection:     r.WifiConnection,
			OverallRating:      r.OverallRating,
		})
	}

	comments := make([]commentResponse, 0, len(spot.Comments))
	for _, c := range spot.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID,
			User:      buildUserResponse(c.UserID, view.Users),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return spotResponse{
		ID:            spot.ID,
		Name:          spot.Name,
		Building:      spot.Building,
		AverageRating: roundTenth(spot.AverageOverall()),
		RatingCount:   len(spot.Ratings),
		DimensionAverages: dimensionAverages{
			Quietness:          roundTenth(domain.DimensionAverage(spot.Ratings, func(r domain.Rating) int { return r.Quietness })),
			Comfort:            roundTenth(domain.DimensionAverage(spot.Ratings, func(r domain.Rating) int { return r.Comfort })),
			SeatAvailability:   roundTenth(domain.DimensionAverage(spot.Ratings, func(r domain.Rating) int { return r.SeatAvailability })),
			OutletAvailability: roundTenth(domain.DimensionAverage(spot.Ratings, func(r domain.Rating) int { return r.OutletAvailability })),
			WifiConnection:     roundTenth(domain.DimensionAverage(spot.Ratings, func(r domain.Rating) int { return r.WifiConnection })),
		},
		Ratings:   ratings,
		Comments:  comments,
		CreatedAt: spot.CreatedAt,
		UpdatedAt: spot.UpdatedAt,
	}
}

func buildUserResponse(userID string, users map[string]domain.User) userResponse {
	if user, ok := users[userID]; ok {
		return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	// Submitter no longer in the directory; keep the id, mask the rest.
	return userResponse{ID: userID, Name: "Unknown user"}
}

func roundTenth(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*10) / 10
	return &rounded
}
