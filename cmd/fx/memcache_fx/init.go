package memcache_fx

import (
	"go.uber.org/fx"
	mem "wanderplan/pkg/memcache"
)

var Module = fx.Provide(provideGeocodeCache)

func provideGeocodeCache() mem.GeocodeStore {
	return mem.NewGeocodeCache()
}
