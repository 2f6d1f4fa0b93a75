package module

import (
	"context"

	"searchvol/internal/services/api/subscriptions/domain"
	subssvc "searchvol/internal/services/api/subscriptions/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptSubscriptionsPort struct{ svc subssvc.Service }

// List returns subscription rows and merged coverage for a user
func (a adaptSubscriptionsPort) List(ctx context.Context, in domain.ListInput) (domain.ListOutput, error) {
	return a.svc.List(ctx, in)
}
