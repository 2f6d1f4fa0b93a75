package repo

import (
	"context"
	"time"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	perr "searchvol/internal/platform/errors"
	"searchvol/internal/platform/store"
	"searchvol/internal/services/api/volume/domain"
)

// SeriesReader fetches the time series for one keyword over a date range
type SeriesReader interface {
	Series(ctx context.Context, keywordID int64, qr interval.Range, g entitle.Granularity) ([]domain.DataPoint, error)
}

// CH reads volume series from the clickhouse seam
type CH struct {
	db store.Clickhouse
}

// NewCH constructs a clickhouse series reader
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("volume.SeriesReader requires a non nil Clickhouse seam")
	}
	return &CH{db: db}
}

const (
	hourlySeriesSQL = `
SELECT created_datetime, search_volume
FROM keyword_search_volume
WHERE keyword_id = ?
AND created_datetime BETWEEN ? AND ?
ORDER BY created_datetime
`
	dailySeriesSQL = `
SELECT created_date, search_volume
FROM keyword_search_volume_daily
WHERE keyword_id = ?
AND created_date BETWEEN ? AND ?
ORDER BY created_date
`
)

// Series returns data points ascending by timestamp, second precision ISO8601
// output, bounds are the query range midnights inclusive
func (c *CH) Series(
	ctx context.Context,
	keywordID int64,
	qr interval.Range,
	g entitle.Granularity,
) ([]domain.DataPoint, error) {
	sql := dailySeriesSQL
	if g == entitle.Hourly {
		sql = hourlySeriesSQL
	}

	rows, err := c.db.Query(ctx, sql, keywordID, qr.Start, qr.End)
	if err != nil {
		return nil, perr.DBf("series query: %v", err)
	}
	defer rows.Close()

	var out []domain.DataPoint
	for rows.Next() {
		var (
			ts  time.Time
			vol int64
		)
		if err := rows.Scan(&ts, &vol); err != nil {
			return nil, err
		}
		out = append(out, domain.DataPoint{
			Timestamp:    ts.UTC().Format("2006-01-02T15:04:05"),
			SearchVolume: vol,
		})
	}
	return out, rows.Err()
}
