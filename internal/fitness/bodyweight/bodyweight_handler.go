package bodyweight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/metrics"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
	"github.com/2beens/fitforecast/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=bodyweight_mocks_test.go -package=bodyweight_test

type entriesRepo interface {
	Upsert(ctx context.Context, entry Entry) (*Entry, error)
	ListAll(ctx context.Context, params EntryParams) ([]Entry, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int, error)
}

const (
	ForecastModePlan    = "plan"
	ForecastModeCalorie = "calorie"

	defaultForecastHorizonWeeks = 12
)

type EntryRequest struct {
	Date      string   `json:"date"`
	WeightLbs float64  `json:"weightLbs"`
	GoalLbs   *float64 `json:"goalLbs,omitempty"`
}

type DeleteEntryResponse struct {
	DeletedID int `json:"deletedId"`
}

type DeleteAllEntriesResponse struct {
	Deleted int `json:"deleted"`
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type ForecastResponse struct {
	Mode     string                  `json:"mode"`
	Actual   forecast.ForecastSeries `json:"actual"`
	Forecast forecast.ForecastSeries `json:"forecast"`
}

type Handler struct {
	repo     entriesRepo
	analyzer *Analyzer
	metrics  *metrics.Manager
}

func NewHandler(
	repo entriesRepo,
	calories caloriesProvider,
	tdee tdeeEstimator,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: NewAnalyzer(repo, calories, tdee),
		metrics:  metricsManager,
	}
}

// Analyzer exposes the analyzer for wiring, e.g. as the latest-weight
// source of the profile handler.
func (handler *Handler) Analyzer() *Analyzer {
	return handler.analyzer
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new body weight entry, unmarshal json params: %s", err)
		http.Error(w, "add body weight entry failed", http.StatusBadRequest)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entry.CreatedAt = time.Now()

	addedEntry, err := handler.repo.Upsert(ctx, *entry)
	if err != nil {
		log.Errorf("failed to add body weight entry [%s]: %s", req.Date, err)
		http.Error(w, "error, failed to add body weight entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWeightEntries.Inc()

	addedEntryJson, err := json.Marshal(addedEntry)
	if err != nil {
		log.Errorf("failed to marshal body weight entry: %s", err)
		http.Error(w, "error, failed to add body weight entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("new body weight entry added: %s", addedEntryJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedEntryJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.list")
	defer span.End()

	params, err := entryParamsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.ListAll(ctx, *params)
	if err != nil {
		log.Errorf("failed to list body weight entries: %s", err)
		http.Error(w, "failed to list body weight entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	respJson, err := json.Marshal(ListResponse{
		Entries: entries,
		Total:   len(entries),
	})
	if err != nil {
		log.Errorf("failed to marshal body weight entries: %s", err)
		http.Error(w, "failed to marshal body weight entries", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.delete")
	defer span.End()

	id, err := idParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "body weight entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete body weight entry %d: %s", id, err)
		http.Error(w, "failed to delete body weight entry", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteEntryResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete body weight entry response: %s", err)
		http.Error(w, "failed to delete body weight entry", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.deleteall")
	defer span.End()

	deleted, err := handler.repo.DeleteAll(ctx)
	if err != nil {
		log.Errorf("failed to delete body weight entries: %s", err)
		http.Error(w, "failed to delete body weight entries", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteAllEntriesResponse{Deleted: deleted})
	if err != nil {
		log.Errorf("failed to marshal delete body weight entries response: %s", err)
		http.Error(w, "failed to delete body weight entries", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.stats")
	defer span.End()

	stats, err := handler.analyzer.Stats(ctx)
	if err != nil {
		log.Errorf("failed to get body weight stats: %s", err)
		http.Error(w, "failed to get body weight stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal body weight stats: %s", err)
		http.Error(w, "failed to get body weight stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.forecast")
	defer span.End()

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = ForecastModePlan
	}
	if mode != ForecastModePlan && mode != ForecastModeCalorie {
		http.Error(w, "error, mode invalid", http.StatusBadRequest)
		return
	}

	horizon := defaultForecastHorizonWeeks
	if horizonStr := r.URL.Query().Get("horizon"); horizonStr != "" {
		h, err := strconv.Atoi(horizonStr)
		if err != nil || h < 0 {
			http.Error(w, "error, horizon invalid", http.StatusBadRequest)
			return
		}
		horizon = h
	}

	var targetRatePct *float64
	if rateStr := r.URL.Query().Get("targetRatePct"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			http.Error(w, "error, target rate invalid", http.StatusBadRequest)
			return
		}
		targetRatePct = &rate
	}

	smoothDays := forecast.DefaultSmoothDays
	if smoothStr := r.URL.Query().Get("smoothDays"); smoothStr != "" {
		sd, err := strconv.Atoi(smoothStr)
		if err != nil || sd <= 0 {
			http.Error(w, "error, smooth days invalid", http.StatusBadRequest)
			return
		}
		smoothDays = sd
	}

	defer func(begin time.Time) {
		handler.metrics.HistForecastDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	var series forecast.ForecastSeries
	var err error
	switch mode {
	case ForecastModePlan:
		series, err = handler.analyzer.ForecastPlan(ctx, horizon, targetRatePct)
	case ForecastModeCalorie:
		series, err = handler.analyzer.ForecastCalorie(ctx, horizon, smoothDays)
	}
	if err != nil {
		log.Errorf("failed to forecast body weight [mode %s]: %s", mode, err)
		http.Error(w, "failed to forecast body weight", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterForecasts.Inc()

	resp := ForecastResponse{
		Mode:     mode,
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
		log.Errorf("failed to marshal body weight forecast: %s", err)
		http.Error(w, "failed to forecast body weight", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func entryFromRequest(req EntryRequest) (*Entry, error) {
	if req.WeightLbs <= 0 {
		return nil, errors.New("error, weight invalid")
	}
	if req.GoalLbs != nil && *req.GoalLbs <= 0 {
		return nil, errors.New("error, goal weight invalid")
	}

	date, err := time.Parse(forecast.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("error, date invalid [want %s]", forecast.DateLayout)
	}

	return &Entry{
		Date:      date,
		WeightLbs: req.WeightLbs,
		GoalLbs:   req.GoalLbs,
	}, nil
}

func entryParamsFromQuery(r *http.Request) (*EntryParams, error) {
	params := &EntryParams{}
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
