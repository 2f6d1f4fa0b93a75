// Package domain holds DTOs for volume http and service contracts
package domain

import (
	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
)

// QueryInput carries the raw request fields exactly as the transport read
// them, string typed epoch seconds and a comma joined keyword id list.
// Shape validation and parsing belong to the service, not the handler
type QueryInput struct {
	UserID     string `json:"user_id" example:"6"`
	KeywordsID string `json:"keywords_id" example:"2,4"`
	Timing     string `json:"timing" example:"HOURLY"`
	StartTime  string `json:"start_time" example:"1735689600"`
	EndTime    string `json:"end_time" example:"1736467200"`
}

// Query is the parsed and validated form of QueryInput
type Query struct {
	UserID     int64
	KeywordIDs []int64 // request order, duplicates preserved
	Timing     entitle.Granularity
	Range      interval.Range
}

// DataPoint is one search volume observation
// Timestamp is second precision ISO8601 without timezone
type DataPoint struct {
	Timestamp    string `json:"timestamp" example:"2025-01-08T09:00:00"`
	SearchVolume int64  `json:"search_volume" example:"3417"`
}

// KeywordResult is the per keyword entry of a query response
// Data is empty whenever Error is true
type KeywordResult struct {
	KeywordID   int64       `json:"keyword_id" example:"2"`
	KeywordName string      `json:"keyword_name,omitempty" example:"fireplace mantel"`
	Error       bool        `json:"error" example:"false"`
	Status      string      `json:"status" example:"Successful"`
	Data        []DataPoint `json:"data"`
}
