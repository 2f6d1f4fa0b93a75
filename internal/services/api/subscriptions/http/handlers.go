// Package http provides http transport for subscription listings
package http

import (
	stdhttp "net/http"

	"searchvol/internal/modkit/httpkit"
	"searchvol/internal/services/api/subscriptions/domain"
	svc "searchvol/internal/services/api/subscriptions/service"
)

// Register mounts subscriptions endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// current subscription rows with merged coverage preview
	httpkit.PostJSON[domain.ListInput](r, "/list", h.list)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /subscriptions/list Subscriptions subscriptionsList
// @Summary List subscription rows and merged coverage windows
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body domain.ListInput true "Filter"
// @Success 200 {object} domain.ListOutput "ok"
// @Router /subscriptions/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	return h.svc.List(r.Context(), in)
}
