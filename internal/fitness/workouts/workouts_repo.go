package workouts

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

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutParams struct {
	Exercise    string
	MuscleGroup string
	From        *time.Time
	To          *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout
				(date, exercise, muscle_group, sets, reps, weight_kg, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		workout.Date, workout.Exercise, workout.MuscleGroup,
		workout.Sets, workout.Reps, workout.WeightKg, workout.Notes, workout.CreatedAt,
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

	span.SetAttributes(attribute.Int("workout.id", id))

	workout.ID = id
	return &workout, nil
}

func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET date = $1, exercise = $2, muscle_group = $3, sets = $4, reps = $5, weight_kg = $6, notes = $7 WHERE id = $8;`,
		workout.Date, workout.Exercise, workout.MuscleGroup,
		workout.Sets, workout.Reps, workout.WeightKg, workout.Notes, workout.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// DeleteAll removes every workout and returns the number of removed rows.
func (r *Repo) DeleteAll(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout`)
	if err != nil {
		return 0, err
	}

	deleted := int(tag.RowsAffected())
	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, exercise, muscle_group, sets, reps, weight_kg, notes, created_at
			FROM workout
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

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// ListAll returns all workouts matching the given params, ordered by date, oldest first.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.Exercise))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
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
				id, date, exercise, muscle_group, sets, reps, weight_kg, notes, created_at
			FROM workout
				WHERE ($1::text = '' OR exercise = $1)
				AND ($2::text = '' OR muscle_group = $2)
				AND ($3::timestamp IS NULL OR date >= $3)
				AND ($4::timestamp IS NULL OR date <= $4)
			ORDER BY date ASC, id ASC;`,
		params.Exercise, params.MuscleGroup,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return workouts, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM workout
			WHERE ($1::text = '' OR exercise = $1)
			AND ($2::text = '' OR muscle_group = $2)
			AND ($3::timestamp IS NULL OR date >= $3)
			AND ($4::timestamp IS NULL OR date <= $4);
	`,
		params.Exercise, params.MuscleGroup,
		params.From, params.To,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return 0, err
	}

	if !rows.Next() {
		return 0, errors.New("unexpected error [no rows next]")
	}

	var count int
	if err := rows.Scan(&count); err != nil {
		return 0, fmt.Errorf("rows scan: %w", err)
	}
	return count, nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var id int
		var date time.Time
		var exercise string
		var muscleGroup string
		var sets int
		var reps int
		var weightKg float64
		var notes string
		var createdAt time.Time
		if err := rows.Scan(&id, &date, &exercise, &muscleGroup, &sets, &reps, &weightKg, &notes, &createdAt); err != nil {
			return nil, err
		}

		workouts = append(workouts, Workout{
			ID:          id,
			Date:        date,
			Exercise:    exercise,
			MuscleGroup: muscleGroup,
			Sets:        sets,
			Reps:        reps,
			WeightKg:    weightKg,
			Notes:       notes,
			CreatedAt:   createdAt,
		})
	}
	return workouts, nil
}
