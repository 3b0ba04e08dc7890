package bodyweight

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

var ErrEntryNotFound = errors.New("body weight entry not found")

type EntryParams struct {
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

// Upsert inserts the entry, or overwrites the measurement already
// logged for that date.
func (r *Repo) Upsert(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO bodyweight
				(date, weight_lbs, goal_lbs, created_at)
				VALUES ($1, $2, $3, $4)
			ON CONFLICT (date) DO UPDATE
				SET weight_lbs = EXCLUDED.weight_lbs,
					goal_lbs = EXCLUDED.goal_lbs
			RETURNING id;`,
		entry.Date, entry.WeightLbs, entry.GoalLbs, entry.CreatedAt,
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

	span.SetAttributes(attribute.Int("entry.id", id))

	entry.ID = id
	return &entry, nil
}

// ListAll returns all entries matching the given params, ordered by date, oldest first.
func (r *Repo) ListAll(ctx context.Context, params EntryParams) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.listall")
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
				id, date, weight_lbs, goal_lbs, created_at
			FROM bodyweight
				WHERE ($1::timestamp IS NULL OR date >= $1)
				AND ($2::timestamp IS NULL OR date <= $2)
			ORDER BY date ASC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2entries: %w", err)
	}
	return entries, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM bodyweight WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteAll removes every entry and returns the number of removed rows.
func (r *Repo) DeleteAll(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.deleteall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM bodyweight`)
	if err != nil {
		return 0, err
	}

	deleted := int(tag.RowsAffected())
	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, nil
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var id int
		var date time.Time
		var weightLbs float64
		var goalLbs *float64
		var createdAt time.Time
		if err := rows.Scan(&id, &date, &weightLbs, &goalLbs, &createdAt); err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			ID:        id,
			Date:      date,
			WeightLbs: weightLbs,
			GoalLbs:   goalLbs,
			CreatedAt: createdAt,
		})
	}
	return entries, nil
}
