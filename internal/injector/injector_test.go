package injector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/systems/collision"
	"github.com/zeusync/collide/internal/core/systems/physics"
	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

func TestInitializeCollisionSystem(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	s, err := InitializeCollisionSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.Dispatcher())
	require.NoError(t, s.Initialize(context.Background()))

	_, err = s.Add(collision.Body{Shape: sat.Box(physics.V2(0, 0), 2, 2)})
	require.NoError(t, err)
	_, err = s.Add(collision.Body{Shape: sat.Box(physics.V2(1, 0), 2, 2)})
	require.NoError(t, err)

	contacts, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.NoError(t, s.Shutdown(context.Background()))
}
