package profile

import (
	"context"
	"errors"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

const (
	// DefaultTDEE is served until a profile is saved.
	DefaultTDEE = 2000.0
	// DefaultWeightLbs stands in when neither a weight log nor a
	// profile weight is available.
	DefaultWeightLbs = 170.0
)

// Service wraps the profile repo with the energy expenditure estimate.
type Service struct {
	repo profileRepo
}

func NewService(repo profileRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// TDEEForWeightLbs estimates the total daily energy expenditure for
// the given current weight. Without a saved profile it returns the
// default estimate.
func (s *Service) TDEEForWeightLbs(ctx context.Context, weightLbs float64) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.tdee")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := s.repo.Get(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return DefaultTDEE, nil
	}
	if err != nil {
		return 0, err
	}

	if weightLbs <= 0 {
		weightLbs = p.CurrWeightLbs
		if weightLbs <= 0 {
			weightLbs = DefaultWeightLbs
		}
	}
	return forecast.EstimateTDEE(p.Sex, p.Age, p.HeightCm, weightLbs/forecast.LbsPerKg, p.Activity), nil
}
