package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the sugared logger shared by the server packages.
// Set CONTACTS_LOG_MODE=production for JSON output, anything else gives
// the coloured development encoder.
func NewLogger() *zap.SugaredLogger {
	return newLogger(os.Getenv("CONTACTS_LOG_MODE"))
}

func newLogger(mode string) *zap.SugaredLogger {
	var config zap.Config

	switch strings.ToLower(mode) {
	case "prod", "production":
		config = zap.NewProductionConfig()
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		log.Panic(err)
	}

	// flushes buffer, if any
	defer logger.Sync()

	return logger.Sugar()
}
