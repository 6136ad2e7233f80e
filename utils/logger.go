package utils

import (
	"log"

	"go.uber.org/zap"
)

func InitializeLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Panic("could not initialize logger: " + err.Error())
	}
	return logger
}
