package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
	"github.com/2beens/fitforecast/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=profile_mocks_test.go -package=profile_test

type profileRepo interface {
	Get(ctx context.Context) (*Profile, error)
	Update(ctx context.Context, p Profile) error
}

type latestWeightProvider interface {
	LatestWeightLbs(ctx context.Context) (*float64, error)
}

const (
	tdeeCacheKey        = "profile-tdee"
	tdeeCacheTTLSeconds = 60
)

type TDEEResponse struct {
	TDEE float64 `json:"tdee"`
}

type UpdateProfileResponse struct {
	Success bool `json:"success"`
}

type ActivitiesResponse struct {
	Activities []string `json:"activities"`
}

type Handler struct {
	repo    profileRepo
	service *Service
	weights latestWeightProvider
	cache   *freecache.Cache
}

func NewHandler(
	repo profileRepo,
	weights latestWeightProvider,
	cache *freecache.Cache,
) *Handler {
	return &Handler{
		repo:    repo,
		service: NewService(repo),
		weights: weights,
		cache:   cache,
	}
}

// Service exposes the TDEE estimator for wiring into the body-weight
// forecast.
func (handler *Handler) Service() *Service {
	return handler.service
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	p, err := handler.repo.Get(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		pkg.WriteJSONResponseOK(w, "{}")
		return
	}
	if err != nil {
		log.Errorf("failed to get profile: %s", err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}
	if p.Sex == "" || p.Age <= 0 || p.HeightCm <= 0 {
		http.Error(w, "error, profile invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, p); err != nil {
		log.Errorf("failed to update profile: %s", err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	// the cached estimate is stale now
	handler.cache.Del([]byte(tdeeCacheKey))

	respJson, err := json.Marshal(UpdateProfileResponse{Success: true})
	if err != nil {
		log.Errorf("failed to marshal update profile response: %s", err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleTDEE(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.tdee")
	defer span.End()

	if cached, err := handler.cache.Get([]byte(tdeeCacheKey)); err == nil {
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	var weightLbs float64
	latest, err := handler.weights.LatestWeightLbs(ctx)
	if err != nil {
		log.Errorf("failed to get latest weight for tdee: %s", err)
		http.Error(w, "failed to get tdee", http.StatusInternalServerError)
		return
	}
	if latest != nil {
		weightLbs = *latest
	}

	tdee, err := handler.service.TDEEForWeightLbs(ctx, weightLbs)
	if err != nil {
		log.Errorf("failed to estimate tdee: %s", err)
		http.Error(w, "failed to get tdee", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(TDEEResponse{TDEE: tdee})
	if err != nil {
		log.Errorf("failed to marshal tdee response: %s", err)
		http.Error(w, "failed to get tdee", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(tdeeCacheKey), respJson, tdeeCacheTTLSeconds); err != nil {
		log.Warnf("failed to cache tdee response: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.activities")
	defer span.End()

	respJson, err := json.Marshal(ActivitiesResponse{Activities: forecast.ActivityCategories()})
	if err != nil {
		log.Errorf("failed to marshal activities response: %s", err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
