// Package entitle decides whether a user's subscriptions grant access to a
// search volume query at a given granularity over a date range
package entitle

import (
	"fmt"

	"searchvol/internal/core/interval"
)

// Granularity is the time resolution of a query or subscription
type Granularity string

const (
	// Hourly granularity, one data point per hour
	Hourly Granularity = "HOURLY"
	// Daily granularity, one data point per day
	Daily Granularity = "DAILY"
)

// ParseGranularity validates a raw timing string
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case Hourly, Daily:
		return Granularity(s), true
	}
	return "", false
}

// Subscription is one entitlement row for a (user, keyword) pair
// rows are read only to this package
type Subscription struct {
	UserID    int64
	KeywordID int64
	Type      Granularity
	Range     interval.Range
}

// ReasonHourlyRequired is returned when an hourly query has no hourly subscription
const ReasonHourlyRequired = "Hourly data requires an hourly subscription"

// Decision is the outcome of an entitlement evaluation
// Reason is empty when Allowed is true
type Decision struct {
	Allowed bool
	Reason  string
}

// Eligible selects the subscription rows that count as coverage evidence for
// a query at granularity g
//
// An hourly query strictly requires at least one hourly subscription, this is
// a precondition and not a filter: when absent the evaluation fails fast with
// ReasonHourlyRequired before any merging. A daily query accepts every row,
// hourly access implies daily access but not the other way around.
func Eligible(g Granularity, subs []Subscription) (eligible []Subscription, reason string) {
	if g == Hourly {
		for _, s := range subs {
			if s.Type == Hourly {
				eligible = append(eligible, s)
			}
		}
		if len(eligible) == 0 {
			return nil, ReasonHourlyRequired
		}
		return eligible, ""
	}
	return subs, ""
}

// Evaluate decides whether subs entitle the caller to query qr at granularity g
//
// Coverage must come from a single merged interval, a query spanning a gap or
// two disjoint windows is denied even when their union covers it.
func Evaluate(g Granularity, qr interval.Range, subs []Subscription) Decision {
	eligible, reason := Eligible(g, subs)
	if reason != "" {
		return Decision{Allowed: false, Reason: reason}
	}

	ranges := make([]interval.Range, 0, len(eligible))
	for _, s := range eligible {
		ranges = append(ranges, s.Range)
	}
	// Merge requires sorted input and this is its only caller
	interval.SortByStart(ranges)
	cov := interval.Merge(ranges)

	if !interval.Contains(cov, qr) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("%s query time range is out of subscription time range.", g),
		}
	}
	return Decision{Allowed: true}
}
