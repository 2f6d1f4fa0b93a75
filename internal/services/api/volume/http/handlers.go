// Package http provides http transport for volume queries
package http

import (
	stdhttp "net/http"

	"searchvol/internal/modkit/httpkit"
	"searchvol/internal/services/api/volume/domain"
	svc "searchvol/internal/services/api/volume/service"
)

// Register mounts volume endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// search volume query with entitlement checks
	httpkit.Get(r, "/query", h.query)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /volume/query Volume volumeQuery
// @Summary Query search volume series for one or more keywords
// @Description Validates subscription entitlement per keyword before fetching data
// @Tags Volume
// @Produce json
// @Param user_id query string true "User id"
// @Param keywords_id query string true "Comma joined keyword ids, order preserved"
// @Param timing query string true "HOURLY or DAILY"
// @Param start_time query string true "Unix epoch seconds UTC"
// @Param end_time query string true "Unix epoch seconds UTC"
// @Success 200 {array} domain.KeywordResult "ok"
// @Failure 403 "no subscriptions for any requested keyword"
// @Router /volume/query [get]
func (h *handlers) query(r *stdhttp.Request) (any, error) {
	qs := r.URL.Query()
	in := domain.QueryInput{
		UserID:     qs.Get("user_id"),
		KeywordsID: qs.Get("keywords_id"),
		Timing:     qs.Get("timing"),
		StartTime:  qs.Get("start_time"),
		EndTime:    qs.Get("end_time"),
	}
	return h.svc.Query(r.Context(), in)
}
