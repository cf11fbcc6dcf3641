//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/systems/collision"
)

func InitializeCollisionSystem(cfg *config.Config) (*collision.System, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
