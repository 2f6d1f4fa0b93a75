// Package service contains the volume query orchestration workflow
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	"searchvol/internal/modkit/repokit"
	perr "searchvol/internal/platform/errors"
	"searchvol/internal/services/api/volume/domain"
	"searchvol/internal/services/api/volume/repo"
)

// Service defines the volume service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the volume service
type Svc struct {
	Repo   repo.Repo
	Series repo.SeriesReader
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New constructs a volume service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], series repo.SeriesReader) *Svc {
	if db == nil {
		panic("volume.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("volume.Service requires a non nil Repo binder")
	}
	if series == nil {
		panic("volume.Service requires a non nil SeriesReader")
	}
	return &Svc{Repo: binder.Bind(db), Series: series, binder: binder, db: db}
}

// statusSuccessful is the per keyword status of an allowed and fetched entry
const statusSuccessful = "Successful"

// Query runs the full search volume workflow for one request
//
// Validation failures return a Validation coded error (400), an empty
// subscription batch returns Forbidden (403), parse and storage failures
// return Internal or DB coded errors (500). Per keyword denials never abort
// the loop, they become error entries inside the 200 payload
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) ([]domain.KeywordResult, error) {
	if err := validateShape(in); err != nil {
		return nil, err
	}

	q, err := parseQuery(in)
	if err != nil {
		return nil, err
	}

	subs, err := s.Repo.SubscriptionsFor(ctx, q.UserID, q.KeywordIDs)
	if err != nil {
		return nil, perr.WrapIf(err, perr.ErrorCodeDB, "fetch subscriptions")
	}
	if len(subs) == 0 {
		return nil, perr.Forbiddenf(
			"User doesn't have any subscriptions with keywords_id %s", joinIDs(q.KeywordIDs),
		)
	}

	byKeyword := make(map[int64][]entitle.Subscription, len(q.KeywordIDs))
	for _, sub := range subs {
		byKeyword[sub.KeywordID] = append(byKeyword[sub.KeywordID], sub)
	}

	// request order and duplicates are an observable contract
	out := make([]domain.KeywordResult, 0, len(q.KeywordIDs))
	for _, kw := range q.KeywordIDs {
		rows, ok := byKeyword[kw]
		if !ok {
			out = append(out, domain.KeywordResult{
				KeywordID: kw,
				Error:     true,
				Status:    fmt.Sprintf("No subscriptions found for the keyword_id %d", kw),
				Data:      []domain.DataPoint{},
			})
			continue
		}

		decision := entitle.Evaluate(q.Timing, q.Range, rows)
		if !decision.Allowed {
			out = append(out, domain.KeywordResult{
				KeywordID: kw,
				Error:     true,
				Status:    decision.Reason,
				Data:      []domain.DataPoint{},
			})
			continue
		}

		name, err := s.Repo.KeywordName(ctx, kw)
		if err != nil {
			return nil, perr.WrapIf(err, perr.ErrorCodeDB, "fetch keyword name")
		}
		points, err := s.Series.Series(ctx, kw, q.Range, q.Timing)
		if err != nil {
			return nil, perr.WrapIf(err, perr.ErrorCodeDB, "fetch series")
		}
		if points == nil {
			points = []domain.DataPoint{}
		}
		out = append(out, domain.KeywordResult{
			KeywordID:   kw,
			KeywordName: name,
			Error:       false,
			Status:      statusSuccessful,
			Data:        points,
		})
	}

	return out, nil
}

// queryFields is the declared field order of the request shape
// the missing fields message enumerates violations in this order
var queryFields = []string{"user_id", "keywords_id", "timing", "start_time", "end_time"}

func validateShape(in domain.QueryInput) error {
	values := map[string]string{
		"user_id":     in.UserID,
		"keywords_id": in.KeywordsID,
		"timing":      in.Timing,
		"start_time":  in.StartTime,
		"end_time":    in.EndTime,
	}

	var missing []string
	for _, f := range queryFields {
		if values[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return perr.Validationf("Missing required fields %s.", strings.Join(missing, ", "))
	}

	if _, ok := entitle.ParseGranularity(in.Timing); !ok {
		return perr.Validationf("Only support 'HOURLY' and 'DAILY' timing.")
	}
	return nil
}

// parseQuery converts the string typed input into a typed Query
// a parse failure after shape validation is an internal error, not a 400
func parseQuery(in domain.QueryInput) (domain.Query, error) {
	var q domain.Query

	userID, err := strconv.ParseInt(strings.TrimSpace(in.UserID), 10, 64)
	if err != nil {
		return q, perr.Internalf("Internal Server Error. Details: %v", err)
	}

	parts := strings.Split(in.KeywordsID, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return q, perr.Internalf("Internal Server Error. Details: %v", err)
		}
		ids = append(ids, id)
	}

	start, err := epochDate(in.StartTime)
	if err != nil {
		return q, err
	}
	end, err := epochDate(in.EndTime)
	if err != nil {
		return q, err
	}

	g, _ := entitle.ParseGranularity(in.Timing)
	q = domain.Query{
		UserID:     userID,
		KeywordIDs: ids,
		Timing:     g,
		Range:      interval.Range{Start: start, End: end},
	}
	return q, nil
}

// epochDate converts string epoch seconds to the UTC calendar date midnight
func epochDate(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, perr.Internalf("Internal Server Error. Details: %v", err)
	}
	t := time.Unix(sec, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
