// Package repo provides postgres access for volume entitlement lookups
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	"searchvol/internal/modkit/repokit"
	perr "searchvol/internal/platform/errors"
)

// Repo is the minimal persistence surface for volume entitlement checks
type Repo interface {
	SubscriptionsFor(ctx context.Context, userID int64, keywordIDs []int64) ([]entitle.Subscription, error)
	KeywordName(ctx context.Context, keywordID int64) (string, error)
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

// SubscriptionsFor returns every subscription row matching the user and any of
// the keyword ids in one batched lookup, storage order, no sorting guarantee
func (r *queries) SubscriptionsFor(ctx context.Context, userID int64, keywordIDs []int64) ([]entitle.Subscription, error) {
	sql, args, err := pgDialect.
		From("users_subscription").
		Select("user_id", "keyword_id", "subscription_type", "start_time", "end_time").
		Where(goqu.Ex{
			"user_id":    userID,
			"keyword_id": keywordIDs,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, perr.DBf("build subscriptions query: %v", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entitle.Subscription
	for rows.Next() {
		var (
			s          entitle.Subscription
			typ        string
			start, end time.Time
		)
		if err := rows.Scan(&s.UserID, &s.KeywordID, &typ, &start, &end); err != nil {
			return nil, err
		}
		s.Type = entitle.Granularity(typ)
		s.Range = interval.Range{Start: start.UTC(), End: end.UTC()}
		out = append(out, s)
	}
	return out, rows.Err()
}

// KeywordName returns the display name for one keyword id
func (r *queries) KeywordName(ctx context.Context, keywordID int64) (string, error) {
	sql, args, err := pgDialect.
		From("keywords").
		Select("keyword_name").
		Where(goqu.Ex{"keyword_id": keywordID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", perr.DBf("build keyword query: %v", err)
	}

	var name string
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", perr.ErrNotFound
		}
		return "", err
	}
	return name, nil
}
