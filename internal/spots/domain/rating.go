package domain

import "math"

// Score bounds shared by every rating dimension. Outlet availability and
// wifi connection additionally accept ScoreNotApplicable, meaning the
// dimension does not apply to the spot (e.g. an outdoor bench).
const (
	ScoreNotApplicable = 0
	ScoreMin           = 1
	ScoreMax           = 5
)

// Dimensions carries the raw per-dimension scores of one submission.
type Dimensions struct {
	Quietness          int
	Comfort            int
	SeatAvailability   int
	OutletAvailability int
	WifiConnection     int
}

// Rating is one user's scored assessment of a spot. OverallRating is
// derived from the dimensions at construction time and stored alongside
// them.
type Rating struct {
	UserID             string
	Quietness          int
	Comfort            int
	SeatAvailability   int
	OutletAvailability int
	WifiConnection     int
	OverallRating      int
}

// NewRating validates the submitted dimensions and derives the overall
// score. Every dimension must be present and within its range; the first
// offending field is reported and nothing is constructed.
func NewRating(userID string, dims Dimensions) (Rating, error) {
	if userID == "" {
		return Rating{}, NewValidationError("userId", "user id is required")
	}
	if err := validateScore("quietness", dims.Quietness, false); err != nil {
		return Rating{}, err
	}
	if err := validateScore("comfort", dims.Comfort, false); err != nil {
		return Rating{}, err
	}
	if err := validateScore("seatAvailability", dims.SeatAvailability, false); err != nil {
		return Rating{}, err
	}
	if err := validateScore("outletAvailability", dims.OutletAvailability, true); err != nil {
		return Rating{}, err
	}
	if err := validateScore("wifiConnection", dims.WifiConnection, true); err != nil {
		return Rating{}, err
	}

	return Rating{
		UserID:             userID,
		Quietness:          dims.Quietness,
		Comfort:            dims.Comfort,
		SeatAvailability:   dims.SeatAvailability,
		OutletAvailability: dims.OutletAvailability,
		WifiConnection:     dims.WifiConnection,
		OverallRating:      overallScore(dims),
	}, nil
}

func validateScore(field string, value int, allowNA bool) error {
	if allowNA && value == ScoreNotApplicable {
		return nil
	}
	if value < ScoreMin || value > ScoreMax {
		if allowNA {
			return NewValidationErrorf(field, "%s must be between %d and %d, or %d for not applicable", field, ScoreMin, ScoreMax, ScoreNotApplicable)
		}
		return NewValidationErrorf(field, "%s must be between %d and %d", field, ScoreMin, ScoreMax)
	}
	return nil
}

// overallScore is the rounded mean of the applicable dimensions, clamped
// to [ScoreMin, ScoreMax]. Not-applicable sentinels are excluded from the
// mean rather than mapped to the midpoint: including the 0 sentinel would
// drag the mean below what the user actually expressed.
func overallScore(dims Dimensions) int {
	values := []int{dims.Quietness, dims.Comfort, dims.SeatAvailability}
	if dims.OutletAvailability != ScoreNotApplicable {
		values = append(values, dims.OutletAvailability)
	}
	if dims.WifiConnection != ScoreNotApplicable {
		values = append(values, dims.WifiConnection)
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	overall := int(math.Round(float64(sum) / float64(len(values))))
	if overall < ScoreMin {
		overall = ScoreMin
	}
	if overall > ScoreMax {
		overall = ScoreMax
	}
	return overall
}

// DimensionAverage returns the mean of one dimension across ratings,
// skipping not-applicable entries. Returns nil when no rating contributes.
func DimensionAverage(ratings []Rating, pick func(Rating) int) *float64 {
	sum, count := 0, 0
	for _, r := range ratings {
		v := pick(r)
		if v == ScoreNotApplicable {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}
