package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repo stores the single user profile row.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT sex, age, height_cm, curr_weight_lbs, activity FROM profile WHERE id = 1;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProfileNotFound
	}

	var p Profile
	if err := rows.Scan(&p.Sex, &p.Age, &p.HeightCm, &p.CurrWeightLbs, &p.Activity); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, p Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profile
				(id, sex, age, height_cm, curr_weight_lbs, activity)
				VALUES (1, $1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
				SET sex = EXCLUDED.sex,
					age = EXCLUDED.age,
					height_cm = EXCLUDED.height_cm,
					curr_weight_lbs = EXCLUDED.curr_weight_lbs,
					activity = EXCLUDED.activity;`,
		p.Sex, p.Age, p.HeightCm, p.CurrWeightLbs, p.Activity,
	)
	return err
}
