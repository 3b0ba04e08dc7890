package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/2beens/fitforecast/internal/fitness/profile"
	"github.com/2beens/fitforecast/internal/forecast"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Sex:           "male",
		Age:           30,
		HeightCm:      180,
		CurrWeightLbs: 175,
		Activity:      "moderate",
	}
}

func TestService_TDEEForWeightLbs(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofileRepo(ctrl)
	service := profile.NewService(repoMock)

	repoMock.EXPECT().Get(gomock.Any()).Return(testProfile(), nil)

	tdee, err := service.TDEEForWeightLbs(context.Background(), 180)
	require.NoError(t, err)
	expected := forecast.EstimateTDEE("male", 30, 180, 180/forecast.LbsPerKg, "moderate")
	assert.InDelta(t, expected, tdee, 1e-9)
	assert.Greater(t, tdee, 2000.0)
}

func TestService_TDEEForWeightLbs_NoProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofileRepo(ctrl)
	service := profile.NewService(repoMock)

	repoMock.EXPECT().Get(gomock.Any()).Return(nil, profile.ErrProfileNotFound)

	tdee, err := service.TDEEForWeightLbs(context.Background(), 180)
	require.NoError(t, err)
	assert.Equal(t, profile.DefaultTDEE, tdee)
}

func TestService_TDEEForWeightLbs_FallbackWeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofileRepo(ctrl)
	service := profile.NewService(repoMock)

	// no logged weight, fall back to the profile weight
	repoMock.EXPECT().Get(gomock.Any()).Return(testProfile(), nil)
	tdee, err := service.TDEEForWeightLbs(context.Background(), 0)
	require.NoError(t, err)
	expected := forecast.EstimateTDEE("male", 30, 180, 175/forecast.LbsPerKg, "moderate")
	assert.InDelta(t, expected, tdee, 1e-9)

	// no profile weight either, fall back to the default
	noWeight := testProfile()
	noWeight.CurrWeightLbs = 0
	repoMock.EXPECT().Get(gomock.Any()).Return(noWeight, nil)
	tdee, err = service.TDEEForWeightLbs(context.Background(), 0)
	require.NoError(t, err)
	expected = forecast.EstimateTDEE("male", 30, 180, profile.DefaultWeightLbs/forecast.LbsPerKg, "moderate")
	assert.InDelta(t, expected, tdee, 1e-9)
}
