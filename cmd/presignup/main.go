// cmd/presignup is the Cognito PreSignUp Lambda.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/logging"
	"github.com/onlyoffice/signupgate/trigger"
	"github.com/onlyoffice/signupgate/version"
	"go.uber.org/zap"
)

func main() {
	bootstrap := logging.BootstrapLogger()

	// The Lambda runtime passes no arguments; configuration comes from
	// SIGNUPGATE_* environment variables.
	cfg, err := config.LoadTrigger(bootstrap)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		os.Exit(1)
	}
	_ = bootstrap.Sync()

	logger := logging.MustBuildLogger(cfg.LogLevel, cfg.Env)
	defer logger.Sync()
	logger.Info("presignup trigger starting", zap.String("version", version.String()))

	lambda.Start(trigger.New(logger).Handle)
}
