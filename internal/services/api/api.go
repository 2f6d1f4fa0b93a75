// Package api provides the HTTP API for the application
package api

import (
	"searchvol/internal/platform/config"
	"searchvol/internal/platform/logger"
	phttp "searchvol/internal/platform/net/http"
	"searchvol/internal/platform/store"

	"searchvol/internal/modkit"
	"searchvol/internal/modkit/httpkit"
	"searchvol/internal/modkit/module"
	"searchvol/internal/modkit/swaggerkit"

	metamod "searchvol/internal/services/api/meta/module"
	subsmod "searchvol/internal/services/api/subscriptions/module"
	volumemod "searchvol/internal/services/api/volume/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		metamod.New(deps),
		volumemod.New(deps),
		subsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
