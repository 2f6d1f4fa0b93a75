// Package repo provides postgres access for subscription listings
package repo

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	"searchvol/internal/modkit/repokit"
	perr "searchvol/internal/platform/errors"
)

// Row is one stored subscription with its row identity
type Row struct {
	ID           uuid.UUID
	Subscription entitle.Subscription
}

// Repo is the minimal persistence surface for subscription listings
type Repo interface {
	ListForUser(ctx context.Context, userID int64, keywordIDs []int64) ([]Row, error)
}

var pgDialect = goqu.Dialect("postgres")

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// ListForUser returns the user's subscription rows, optionally filtered to a
// keyword id set, ordered by keyword then window start
func (r *queries) ListForUser(ctx context.Context, userID int64, keywordIDs []int64) ([]Row, error) {
	ex := goqu.Ex{"user_id": userID}
	if len(keywordIDs) > 0 {
		ex["keyword_id"] = keywordIDs
	}
	sql, args, err := pgDialect.
		From("users_subscription").
		Select("id", "user_id", "keyword_id", "subscription_type", "start_time", "end_time").
		Where(ex).
		Order(goqu.I("keyword_id").Asc(), goqu.I("start_time").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, perr.DBf("build list query: %v", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row        Row
			typ        string
			start, end time.Time
		)
		if err := rows.Scan(&row.ID, &row.Subscription.UserID, &row.Subscription.KeywordID, &typ, &start, &end); err != nil {
			return nil, err
		}
		row.Subscription.Type = entitle.Granularity(typ)
		row.Subscription.Range = interval.Range{Start: start.UTC(), End: end.UTC()}
		out = append(out, row)
	}
	return out, rows.Err()
}
