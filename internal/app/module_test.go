package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/matheus3301/mchat/internal/config"
)

func TestModuleGraphIsComplete(t *testing.T) {
	p := Params{
		ProfileName: "test",
		Profile: config.Profile{
			ServerURL: "http://127.0.0.1:5000",
			UserID:    1,
		},
	}
	require.NoError(t, fx.ValidateApp(Options(p)...))
}
