// Package service contains subscription listing workflows
package service

import (
	"context"
	"strconv"
	"strings"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	"searchvol/internal/modkit/repokit"
	perr "searchvol/internal/platform/errors"
	"searchvol/internal/services/api/subscriptions/domain"
	"searchvol/internal/services/api/subscriptions/repo"
)

// Service defines the subscriptions service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the subscriptions service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New constructs a subscriptions service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("subscriptions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("subscriptions.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

const dateLayout = "2006-01-02"

// List returns the caller's subscription rows plus merged coverage windows
// per keyword and granularity, the same merge the query path relies on
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListOutput, error) {
	keywordIDs, err := parseKeywordFilter(in.KeywordsID)
	if err != nil {
		return domain.ListOutput{}, err
	}

	rows, err := s.Repo.ListForUser(ctx, in.UserID, keywordIDs)
	if err != nil {
		return domain.ListOutput{}, perr.WrapIf(err, perr.ErrorCodeDB, "list subscriptions")
	}

	out := domain.ListOutput{
		Subscriptions: make([]domain.SubscriptionRow, 0, len(rows)),
	}
	byKeyword := make(map[int64][]entitle.Subscription)
	var keywordOrder []int64
	for _, r := range rows {
		sub := r.Subscription
		out.Subscriptions = append(out.Subscriptions, domain.SubscriptionRow{
			ID:        r.ID.String(),
			KeywordID: sub.KeywordID,
			Type:      string(sub.Type),
			StartDate: sub.Range.Start.Format(dateLayout),
			EndDate:   sub.Range.End.Format(dateLayout),
		})
		if _, seen := byKeyword[sub.KeywordID]; !seen {
			keywordOrder = append(keywordOrder, sub.KeywordID)
		}
		byKeyword[sub.KeywordID] = append(byKeyword[sub.KeywordID], sub)
	}

	for _, kw := range keywordOrder {
		subs := byKeyword[kw]
		// hourly coverage exists only when hourly rows do, daily always
		// covers since every type grants daily access
		if hourly, reason := entitle.Eligible(entitle.Hourly, subs); reason == "" {
			out.Coverage = append(out.Coverage, coverageOf(kw, entitle.Hourly, hourly))
		}
		daily, _ := entitle.Eligible(entitle.Daily, subs)
		out.Coverage = append(out.Coverage, coverageOf(kw, entitle.Daily, daily))
	}

	return out, nil
}

func coverageOf(kw int64, g entitle.Granularity, subs []entitle.Subscription) domain.Coverage {
	ranges := make([]interval.Range, 0, len(subs))
	for _, s := range subs {
		ranges = append(ranges, s.Range)
	}
	interval.SortByStart(ranges)
	merged := interval.Merge(ranges)

	windows := make([]domain.CoverageWindow, 0, len(merged))
	for _, r := range merged {
		windows = append(windows, domain.CoverageWindow{
			Start: r.Start.Format(dateLayout),
			End:   r.End.Format(dateLayout),
		})
	}
	return domain.Coverage{KeywordID: kw, Granularity: string(g), Windows: windows}
}

// parseKeywordFilter splits the optional comma joined id list
// the bind layer already validated the shape via the comma_ints tag
func parseKeywordFilter(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, perr.Validationf("keywords_id must be a comma joined integer list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
