package meals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

var ErrMealNotFound = errors.New("meal not found")

type MealParams struct {
	From *time.Time
	To   *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO meal
				(date, calories, protein_g, carbs_g, fat_g, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		meal.Date, meal.Calories, meal.ProteinG, meal.CarbsG, meal.FatG, meal.Notes, meal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("meal.id", id))

	meal.ID = id
	return &meal, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, calories, protein_g, carbs_g, fat_g, notes, created_at
			FROM meal
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	meals, err := r.rows2meals(rows)
	if err != nil {
		return nil, err
	}

	if len(meals) != 1 {
		return nil, ErrMealNotFound
	}

	return &meals[0], nil
}

// ListAll returns all meals matching the given params, ordered by date, oldest first.
func (r *Repo) ListAll(ctx context.Context, params MealParams) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, calories, protein_g, carbs_g, fat_g, notes, created_at
			FROM meal
				WHERE ($1::timestamp IS NULL OR date >= $1)
				AND ($2::timestamp IS NULL OR date <= $2)
			ORDER BY date ASC, id ASC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	meals, err := r.rows2meals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2meals: %w", err)
	}
	return meals, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM meal WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}
	return nil
}

// DeleteAll removes every meal and returns the number of removed rows.
func (r *Repo) DeleteAll(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.deleteall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM meal`)
	if err != nil {
		return 0, err
	}

	deleted := int(tag.RowsAffected())
	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, nil
}

func (r *Repo) rows2meals(rows pgx.Rows) ([]Meal, error) {
	var meals []Meal
	for rows.Next() {
		var id int
		var date time.Time
		var calories float64
		var proteinG float64
		var carbsG float64
		var fatG float64
		var notes string
		var createdAt time.Time
		if err := rows.Scan(&id, &date, &calories, &proteinG, &carbsG, &fatG, &notes, &createdAt); err != nil {
			return nil, err
		}

		meals = append(meals, Meal{
			ID:        id,
			Date:      date,
			Calories:  calories,
			ProteinG:  proteinG,
			CarbsG:    carbsG,
			FatG:      fatG,
			Notes:     notes,
			CreatedAt: createdAt,
		})
	}
	return meals, nil
}
