package meals

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

//go:generate mockgen -source=$GOFILE -destination=meals_mocks_test.go -package=meals_test

type mealsRepo interface {
	Add(ctx context.Context, meal Meal) (*Meal, error)
	Get(ctx context.Context, id int) (*Meal, error)
	ListAll(ctx context.Context, params MealParams) ([]Meal, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int, error)
}

type MealRequest struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
	Notes    string  `json:"notes"`
}

type DeleteMealResponse struct {
	DeletedID int `json:"deletedId"`
}

type DeleteAllMealsResponse struct {
	Deleted int `json:"deleted"`
}

type ListResponse struct {
	Meals []Meal `json:"meals"`
	Total int    `json:"total"`
}

type Handler struct {
	repo     mealsRepo
	analyzer *Analyzer
	metrics  *metrics.Manager
}

func NewHandler(repo mealsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: NewAnalyzer(repo),
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req MealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new meal, unmarshal json params: %s", err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}

	meal, err := mealFromRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	meal.CreatedAt = time.Now()

	addedMeal, err := handler.repo.Add(ctx, *meal)
	if err != nil {
		log.Errorf("failed to add new meal [%s]: %s", req.Date, err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeals.Inc()

	addedMealJson, err := json.Marshal(addedMeal)
	if err != nil {
		log.Errorf("failed to marshal new meal: %s", err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new meal added: %s", addedMealJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedMealJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.get")
	defer span.End()

	id, err := idParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meal, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get meal %d: %s", id, err)
		http.Error(w, "meal not found", http.StatusBadRequest)
		return
	}

	mealJson, err := json.Marshal(meal)
	if err != nil {
		log.Errorf("failed to marshal meal: %s", err)
		http.Error(w, "failed to marshal meal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, mealJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.list")
	defer span.End()

	params, err := mealParamsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meals, err := handler.repo.ListAll(ctx, *params)
	if err != nil {
		log.Errorf("failed to list meals: %s", err)
		http.Error(w, "failed to list meals", http.StatusInternalServerError)
		return
	}
	if meals == nil {
		meals = []Meal{}
	}

	respJson, err := json.Marshal(ListResponse{
		Meals: meals,
		Total: len(meals),
	})
	if err != nil {
		log.Errorf("failed to marshal meals: %s", err)
		http.Error(w, "failed to marshal meals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.delete")
	defer span.End()

	id, err := idParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrMealNotFound) {
			http.Error(w, "meal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete meal %d: %s", id, err)
		http.Error(w, "failed to delete meal", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteMealResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete meal response: %s", err)
		http.Error(w, "failed to delete meal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.deleteall")
	defer span.End()

	deleted, err := handler.repo.DeleteAll(ctx)
	if err != nil {
		log.Errorf("failed to delete meals: %s", err)
		http.Error(w, "failed to delete meals", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteAllMealsResponse{Deleted: deleted})
	if err != nil {
		log.Errorf("failed to marshal delete meals response: %s", err)
		http.Error(w, "failed to delete meals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.daily")
	defer span.End()

	var selected *time.Time
	if selectedStr := r.URL.Query().Get("selectedDate"); selectedStr != "" {
		selectedDate, err := time.Parse(forecast.DateLayout, selectedStr)
		if err != nil {
			http.Error(w, "error, selected date invalid", http.StatusBadRequest)
			return
		}
		selected = &selectedDate
	}

	totals, err := handler.analyzer.DailyTotals(ctx, selected)
	if err != nil {
		log.Errorf("failed to get daily meal totals: %s", err)
		http.Error(w, "failed to get daily meal totals", http.StatusInternalServerError)
		return
	}
	if totals == nil {
		totals = []DailyTotal{}
	}

	totalsJson, err := json.Marshal(totals)
	if err != nil {
		log.Errorf("failed to marshal daily meal totals: %s", err)
		http.Error(w, "failed to get daily meal totals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, totalsJson, http.StatusOK)
}

func mealFromRequest(req MealRequest) (*Meal, error) {
	if req.Calories < 0 || req.ProteinG < 0 || req.CarbsG < 0 || req.FatG < 0 {
		return nil, errors.New("error, negative macros")
	}

	date, err := time.Parse(forecast.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("error, date invalid [want %s]", forecast.DateLayout)
	}

	return &Meal{
		Date:     date,
		Calories: req.Calories,
		ProteinG: req.ProteinG,
		CarbsG:   req.CarbsG,
		FatG:     req.FatG,
		Notes:    req.Notes,
	}, nil
}

func mealParamsFromQuery(r *http.Request) (*MealParams, error) {
	params := &MealParams{}
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
