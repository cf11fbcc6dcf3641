package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/events/contact"
	"github.com/zeusync/collide/internal/core/observability/log"
	"github.com/zeusync/collide/internal/core/systems/collision"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideDispatcher,
	collision.NewFromConfig,
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	logger, err := log.NewWithOptions(cfg.LogOptions())
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func ProvideDispatcher() contact.Dispatcher {
	return contact.New()
}
