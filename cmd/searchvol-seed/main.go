// Command searchvol-seed loads sample keywords, users, subscriptions and three
// months of hourly search volume data into Postgres and ClickHouse.
//
// The subscription fixtures cover the interesting entitlement shapes: single
// and multiple keywords, hourly and daily plans, overlapping windows, and a
// user with no subscriptions at all. The hourly series has a handful of
// morning hours removed from random days so gaps in the raw data exist.
package main

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"searchvol/internal/core/keynorm"
	"searchvol/internal/platform/config"
	"searchvol/internal/platform/logger"
	"searchvol/internal/platform/store"
)

const (
	seriesStart = "2025-01-01T00:00:00Z"
	seriesEnd   = "2025-03-31T23:00:00Z"
	volumeMin   = 100
	volumeMax   = 5000
	batchSize   = 10000
	randSeed    = 42
)

var keywordNames = []string{
	"floating shelves",
	"fireplace mantel",
	"wall shelf",
	"butcher block countertop",
	"fireplace surround",
	"work bench",
	"countertop",
	"work table",
	"floating shelf",
	"bed frame",
}

type subscription struct {
	UserID    int64
	KeywordID int64
	Type      string
	Start     string
	End       string
}

// subscriptions holds one fixture per entitlement scenario. User 7 exists in
// the users table but owns no rows here.
var subscriptions = []subscription{
	// hourly, single keyword, overlapping windows
	{1, 1, "HOURLY", "2025-01-01", "2025-01-10"},
	{1, 1, "HOURLY", "2025-01-07", "2025-01-20"},
	// daily, single keyword, overlapping windows
	{2, 5, "DAILY", "2025-01-01", "2025-01-12"},
	{2, 5, "DAILY", "2025-01-10", "2025-01-25"},
	// hourly, multiple keywords
	{3, 1, "HOURLY", "2025-01-01", "2025-01-10"},
	{3, 2, "HOURLY", "2025-01-03", "2025-01-15"},
	// daily, multiple keywords
	{4, 6, "DAILY", "2025-01-01", "2025-01-10"},
	{4, 7, "DAILY", "2025-01-03", "2025-01-15"},
	{4, 8, "DAILY", "2025-01-05", "2025-01-12"},
	// hourly and daily on the same keyword
	{5, 2, "HOURLY", "2025-01-01", "2025-01-10"},
	{5, 2, "DAILY", "2025-01-04", "2025-01-15"},
	// hourly and daily across multiple keywords
	{6, 2, "HOURLY", "2025-01-01", "2025-01-12"},
	{6, 3, "DAILY", "2025-01-01", "2025-01-15"},
	{6, 4, "HOURLY", "2025-01-05", "2025-01-10"},
	{6, 4, "HOURLY", "2025-01-10", "2025-01-18"},
}

const userCount = 7

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()
	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			ClientName: "searchvol",
			ClientTag:  "seed",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := ensureVolumeTables(ctx, st); err != nil {
		l.Panic().Err(err).Msg("clickhouse schema failed")
	}
	l.Info().Msg("clickhouse schema ready")

	if err := seedPostgres(ctx, st); err != nil {
		l.Panic().Err(err).Msg("postgres seed failed")
	}
	l.Info().Int("keywords", len(keywordNames)).Int("users", userCount).
		Int("subscriptions", len(subscriptions)).Msg("postgres seed complete")

	rng := rand.New(rand.NewSource(randSeed))
	hourly := generateHourly(rng)
	removed := removeNoise(rng, hourly)

	if err := insertHourly(ctx, st, hourly); err != nil {
		l.Panic().Err(err).Msg("hourly volume seed failed")
	}
	l.Info().Int("rows", countRows(hourly)).Int("removed", removed).
		Msg("hourly volume seed complete")

	if err := insertDaily(ctx, st, hourly); err != nil {
		l.Panic().Err(err).Msg("daily volume seed failed")
	}
	l.Info().Msg("daily volume seed complete")
}

// ensureVolumeTables creates the clickhouse tables if they do not exist.
func ensureVolumeTables(ctx context.Context, st *store.Store) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS keyword_search_volume (
			keyword_id       Int64,
			created_datetime DateTime('UTC'),
			search_volume    Int64
		) ENGINE = MergeTree
		ORDER BY (keyword_id, created_datetime)`,
		`CREATE TABLE IF NOT EXISTS keyword_search_volume_daily (
			keyword_id    Int64,
			created_date  Date,
			search_volume Int64
		) ENGINE = MergeTree
		ORDER BY (keyword_id, created_date)`,
	}
	for _, stmt := range ddl {
		if err := st.CH.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedPostgres writes keywords, users and subscriptions in one transaction.
func seedPostgres(ctx context.Context, st *store.Store) error {
	return st.PG.Tx(ctx, func(q store.RowQuerier) error {
		for i, name := range keywordNames {
			_, err := q.Exec(ctx,
				`INSERT INTO keywords (keyword_id, keyword_name) VALUES ($1, $2)
				 ON CONFLICT (keyword_id) DO NOTHING`,
				int64(i+1), keynorm.Normalize(name))
			if err != nil {
				return err
			}
		}
		for u := int64(1); u <= userCount; u++ {
			_, err := q.Exec(ctx,
				`INSERT INTO users (user_id, username, email, first_name, last_name)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (user_id) DO NOTHING`,
				u, userName(u), userName(u)+"@example.com", "User", userLast(u))
			if err != nil {
				return err
			}
		}
		for _, s := range subscriptions {
			_, err := q.Exec(ctx,
				`INSERT INTO users_subscription
				   (id, user_id, keyword_id, subscription_type, start_time, end_time)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), s.UserID, s.KeywordID, s.Type, s.Start, s.End)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type hourlyRow struct {
	When   time.Time
	Volume int64
}

// generateHourly produces a full hourly series per keyword for the window.
func generateHourly(rng *rand.Rand) map[int64][]hourlyRow {
	start, _ := time.Parse(time.RFC3339, seriesStart)
	end, _ := time.Parse(time.RFC3339, seriesEnd)

	out := make(map[int64][]hourlyRow, len(keywordNames))
	for id := int64(1); id <= int64(len(keywordNames)); id++ {
		var rows []hourlyRow
		for ts := start; !ts.After(end); ts = ts.Add(time.Hour) {
			vol := int64(volumeMin + rng.Intn(volumeMax-volumeMin))
			rows = append(rows, hourlyRow{When: ts, Volume: vol})
		}
		out[id] = rows
	}
	return out
}

// removeNoise drops a few morning hours from random days on three random
// keywords so the raw series has realistic gaps. Returns the removed count.
func removeNoise(rng *rand.Rand, hourly map[int64][]hourlyRow) int {
	start, _ := time.Parse(time.RFC3339, seriesStart)
	totalHours := len(hourly[1])

	noisyKeywords := make(map[int64]bool, 3)
	for len(noisyKeywords) < 3 {
		noisyKeywords[int64(1+rng.Intn(len(keywordNames)))] = true
	}

	hourSets := [][]int{{9}, {8, 9}, {8, 9, 10}, {7, 8, 9, 10}}
	drop := make(map[time.Time]bool)
	for i := 0; i < 10; i++ {
		day := start.Add(time.Duration(rng.Intn(totalHours)) * time.Hour).
			Truncate(24 * time.Hour)
		for _, h := range hourSets[rng.Intn(len(hourSets))] {
			drop[day.Add(time.Duration(h)*time.Hour)] = true
		}
	}

	removed := 0
	for id := range noisyKeywords {
		rows := hourly[id]
		kept := rows[:0]
		for _, r := range rows {
			if drop[r.When] {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		hourly[id] = kept
	}
	return removed
}

func insertHourly(ctx context.Context, st *store.Store, hourly map[int64][]hourlyRow) error {
	cols := []string{"keyword_id", "created_datetime", "search_volume"}
	batch := make([][]any, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.CH.Insert(ctx, "keyword_search_volume", cols, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}
	for id := int64(1); id <= int64(len(keywordNames)); id++ {
		for _, r := range hourly[id] {
			batch = append(batch, []any{id, r.When, r.Volume})
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

// insertDaily aggregates the hourly series into per-day sums.
func insertDaily(ctx context.Context, st *store.Store, hourly map[int64][]hourlyRow) error {
	cols := []string{"keyword_id", "created_date", "search_volume"}
	var batch [][]any
	for id := int64(1); id <= int64(len(keywordNames)); id++ {
		sums := make(map[time.Time]int64)
		var days []time.Time
		for _, r := range hourly[id] {
			day := r.When.Truncate(24 * time.Hour)
			if _, seen := sums[day]; !seen {
				days = append(days, day)
			}
			sums[day] += r.Volume
		}
		for _, day := range days {
			batch = append(batch, []any{id, day, sums[day]})
		}
	}
	return st.CH.Insert(ctx, "keyword_search_volume_daily", cols, batch)
}

func countRows(hourly map[int64][]hourlyRow) int {
	n := 0
	for _, rows := range hourly {
		n += len(rows)
	}
	return n
}

func userName(u int64) string { return "user_" + userLast(u) }

func userLast(u int64) string { return strconv.FormatInt(u, 10) }
