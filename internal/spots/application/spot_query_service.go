package application

import (
	"context"

	"github.com/ratemystudyspot/api/internal/spots/domain"
)

// NewSpotQueryService wires the read use-cases to their ports.
func NewSpotQueryService(spots SpotRepository, users UserDirectory) SpotQueryService {
	return &spotQueryService{spots: spots, users: users}
}

type spotQueryService struct {
	spots SpotRepository
	users UserDirectory
}

func (s *spotQueryService) List(ctx context.Context, paging Paging) ([]SpotView, error) {
	spots, err := s.spots.Find(ctx, paging)
	if err != nil {
		return nil, err
	}

	users, err := resolveSubmitters(ctx, s.users, spots)
	if err != nil {
		return nil, err
	}

	views := make([]SpotView, 0, len(spots))
	for _, spot := range spots {
		views = append(views, SpotView{Spot: spot, Users: users})
	}
	return views, nil
}

func (s *spotQueryService) Detail(ctx context.Context, id string) (*SpotView, error) {
	spot, err := s.spots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := resolveSubmitters(ctx, s.users, []domain.Spot{*spot})
	if err != nil {
		return nil, err
	}
	return &SpotView{Spot: *spot, Users: users}, nil
}
