package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// dbClock reads now() from Postgres so reward math never depends on a
// timestamp a client (or a skewed app host) could influence.
type dbClock struct{ pool *pgxpool.Pool }

func (c *dbClock) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := c.pool.QueryRow(ctx, `SELECT now()`).Scan(&now); err != nil {
		return time.Time{}, errors.Wrap(err, "read server time")
	}
	return now.UTC(), nil
}
