package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/onlyoffice/signupgate/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRun_ConfigError(t *testing.T) {
	err := Run(context.Background(), Hooks{
		Name: "test",
		LoadConfig: func(*zap.Logger) (*config.CoreConfig, error) {
			return nil, errors.New("bad config")
		},
	})
	assert.ErrorContains(t, err, "load config: bad config")
}

func TestRun_HandlerError(t *testing.T) {
	err := Run(context.Background(), Hooks{
		Name: "test",
		LoadConfig: func(*zap.Logger) (*config.CoreConfig, error) {
			return &config.CoreConfig{Env: "dev", LogLevel: "error"}, nil
		},
		BuildHandler: func(*config.CoreConfig, *zap.Logger) (http.Handler, error) {
			return nil, errors.New("no routes")
		},
	})
	assert.ErrorContains(t, err, "build handler: no routes")
}
