package module

import (
	"context"

	"searchvol/internal/services/api/volume/domain"
	volsvc "searchvol/internal/services/api/volume/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptVolumePort struct{ svc volsvc.Service }

// Query runs the entitlement checked search volume workflow
func (a adaptVolumePort) Query(ctx context.Context, in domain.QueryInput) ([]domain.KeywordResult, error) {
	return a.svc.Query(ctx, in)
}
