package app

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/peyvandtech/darmana/config"
	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/service/appointment"
	"github.com/peyvandtech/darmana/internal/service/weekview"
	"github.com/peyvandtech/darmana/internal/store"
	"github.com/peyvandtech/darmana/internal/store/cache"
	"github.com/peyvandtech/darmana/internal/store/memory"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideMemoryStore,
		ProvideStore,
		ProvideGrid,
		ProvideAppointmentService,
		ProvideWeekviewService,
	),
)

func ProvideMemoryStore() *memory.Store {
	return memory.New()
}

// ProvideStore wraps the backing store with the redis day-listing cache
// when it is enabled and a client is available.
func ProvideStore(mem *memory.Store, rdb *redis.Client, cfg *config.Config) store.Store {
	if cfg.Cache.Enabled && rdb != nil {
		ttl := time.Duration(cfg.Cache.DayTTLSeconds) * time.Second
		slog.Info("day-listing cache enabled", "ttl", ttl)
		return cache.New(mem, rdb, ttl)
	}
	return mem
}

func ProvideGrid() *calendar.Grid {
	return calendar.New(nil, nil)
}

func ProvideAppointmentService(st store.Store) appointment.Service {
	return appointment.New(st)
}

func ProvideWeekviewService(grid *calendar.Grid, st store.Store) weekview.Service {
	return weekview.New(grid, st)
}
