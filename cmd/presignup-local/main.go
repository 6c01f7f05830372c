// cmd/presignup-local serves the PreSignUp hook over HTTP for local development.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/onlyoffice/signupgate/app"
	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/hookserver"
	"go.uber.org/zap"
)

func main() {
	err := app.Run(context.Background(), app.Hooks{
		Name: "presignup-local",
		LoadConfig: func(logger *zap.Logger) (*config.CoreConfig, error) {
			return config.Load(logger, os.Args[1:])
		},
		BuildHandler: func(cfg *config.CoreConfig, logger *zap.Logger) (http.Handler, error) {
			return hookserver.New(logger).Routes(cfg), nil
		},
	})
	if err != nil {
		os.Exit(1)
	}
}
