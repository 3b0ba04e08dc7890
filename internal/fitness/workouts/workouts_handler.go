package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/metrics"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
	"github.com/2beens/fitforecast/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, id int) (*Workout, error)
	ListAll(ctx context.Context, params WorkoutParams) ([]Workout, error)
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context, params WorkoutParams) (int, error)
}

const catalogCacheKey = "exercise-catalog"

type WorkoutRequest struct {
	Date        string  `json:"date"`
	Exercise    string  `json:"exercise"`
	MuscleGroup string  `json:"muscleGroup"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weightKg"`
	Notes       string  `json:"notes"`
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type DeleteAllWorkoutsResponse struct {
	Deleted int `json:"deleted"`
}

type UpdateWorkoutResponse struct {
	UpdatedID int `json:"updatedId"`
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

type ForecastResponse struct {
	Model    string                  `json:"model"`
	Actual   forecast.ForecastSeries `json:"actual"`
	Forecast forecast.ForecastSeries `json:"forecast"`
}

type Handler struct {
	repo     workoutsRepo
	analyzer *Analyzer
	cache    *freecache.Cache
	metrics  *metrics.Manager
}

func NewHandler(repo workoutsRepo, cache *freecache.Cache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: NewAnalyzer(repo),
		cache:    cache,
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	workout, err := workoutFromRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	workout.CreatedAt = time.Now()

	addedWorkout, err := handler.repo.Add(ctx, *workout)
	if err != nil {
		log.Errorf("failed to add new workout [%s], [%s]: %s", workout.MuscleGroup, workout.Exercise, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkouts.Inc()

	addedWorkoutJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %s", addedWorkoutJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedWorkoutJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := idParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "workout not found", http.StatusBadRequest)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	params, err := workoutParamsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workouts, err := handler.repo.ListAll(ctx, *params)
	if err != nil {
		log.Errorf("failed to list workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}

	respJson, err := json.Marshal(ListResponse{
		Workouts: workouts,
		Total:    len(workouts),
	})
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "failed to marshal workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}
	if workout.ID <= 0 {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &workout); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update workout %d: %s", workout.ID, err)
		http.Error(w, "failed to update workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(UpdateWorkoutResponse{UpdatedID: workout.ID})
	if err != nil {
		log.Errorf("failed to marshal update workout response: %s", err)
		http.Error(w, "failed to update workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, err := idParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteWorkoutResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete workout response: %s", err)
		http.Error(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteall")
	defer span.End()

	deleted, err := handler.repo.DeleteAll(ctx)
	if err != nil {
		log.Errorf("failed to delete workouts: %s", err)
		http.Error(w, "failed to delete workouts", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteAllWorkoutsResponse{Deleted: deleted})
	if err != nil {
		log.Errorf("failed to marshal delete workouts response: %s", err)
		http.Error(w, "failed to delete workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	stats, err := handler.analyzer.Stats(ctx, time.Now())
	if err != nil {
		log.Errorf("failed to get workout stats: %s", err)
		http.Error(w, "failed to get workout stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal workout stats: %s", err)
		http.Error(w, "failed to get workout stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.progression")
	defer span.End()

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	progression, err := handler.analyzer.Progression(ctx, exercise)
	if err != nil {
		log.Errorf("failed to get progression for [%s]: %s", exercise, err)
		http.Error(w, "failed to get progression", http.StatusInternalServerError)
		return
	}
	if progression == nil {
		progression = []ProgressionPoint{}
	}

	progressionJson, err := json.Marshal(progression)
	if err != nil {
		log.Errorf("failed to marshal progression: %s", err)
		http.Error(w, "failed to get progression", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, progressionJson, http.StatusOK)
}

func (handler *Handler) HandlePersonalBests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.personalbests")
	defer span.End()

	bests, err := handler.analyzer.PersonalBests(ctx)
	if err != nil {
		log.Errorf("failed to get personal bests: %s", err)
		http.Error(w, "failed to get personal bests", http.StatusInternalServerError)
		return
	}
	if bests == nil {
		bests = []PersonalBest{}
	}

	bestsJson, err := json.Marshal(bests)
	if err != nil {
		log.Errorf("failed to marshal personal bests: %s", err)
		http.Error(w, "failed to get personal bests", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, bestsJson, http.StatusOK)
}

func (handler *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.forecast")
	defer span.End()

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	horizon := 8
	if horizonStr := r.URL.Query().Get("horizon"); horizonStr != "" {
		h, err := strconv.Atoi(horizonStr)
		if err != nil || h < 0 {
			http.Error(w, "error, horizon invalid", http.StatusBadRequest)
			return
		}
		horizon = h
	}

	model := forecast.ModelAuto
	if modelStr := r.URL.Query().Get("model"); modelStr != "" {
		model = forecast.Model(modelStr)
	}

	defer func(begin time.Time) {
		handler.metrics.HistForecastDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	series, err := handler.analyzer.Forecast1RM(ctx, exercise, horizon, model)
	if err != nil {
		log.Errorf("failed to forecast [%s]: %s", exercise, err)
		http.Error(w, "failed to forecast", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterForecasts.Inc()

	resp := ForecastResponse{
		Model:    string(model),
		Actual:   series.Actuals(),
		Forecast: series.Predictions(),
	}
	if resp.Actual == nil {
		resp.Actual = forecast.ForecastSeries{}
	}
	if resp.Forecast == nil {
		resp.Forecast = forecast.ForecastSeries{}
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal forecast: %s", err)
		http.Error(w, "failed to forecast", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.catalog")
	defer span.End()

	if cached, err := handler.cache.Get([]byte(catalogCacheKey)); err == nil {
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	catalogJson, err := json.Marshal(map[string]any{"catalog": ExerciseCatalog})
	if err != nil {
		log.Errorf("failed to marshal exercise catalog: %s", err)
		http.Error(w, "failed to get exercise catalog", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(catalogCacheKey), catalogJson, 3600); err != nil {
		log.Warnf("failed to cache exercise catalog: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, catalogJson, http.StatusOK)
}

func workoutFromRequest(req WorkoutRequest) (*Workout, error) {
	if req.Exercise == "" || req.MuscleGroup == "" {
		return nil, errors.New("error, exercise or muscle group empty")
	}
	if req.Sets <= 0 || req.Reps <= 0 || req.WeightKg < 0 {
		return nil, errors.New("error, sets, reps or weight invalid")
	}

	date, err := time.Parse(forecast.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("error, date invalid [want %s]", forecast.DateLayout)
	}

	return &Workout{
		Date:        date,
		Exercise:    req.Exercise,
		MuscleGroup: req.MuscleGroup,
		Sets:        req.Sets,
		Reps:        req.Reps,
		WeightKg:    req.WeightKg,
		Notes:       req.Notes,
	}, nil
}

func workoutParamsFromQuery(r *http.Request) (*WorkoutParams, error) {
	params := &WorkoutParams{
		Exercise:    r.URL.Query().Get("exercise"),
		MuscleGroup: r.URL.Query().Get("group"),
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(forecast.DateLayout, fromStr)
		if err != nil {
			return nil, errors.New("error, from date invalid")
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(forecast.DateLayout, toStr)
		if err != nil {
			return nil, errors.New("error, to date invalid")
		}
		params.To = &to
	}
	return params, nil
}

func idParam(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}
