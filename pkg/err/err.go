package errprocess

import (
	"fmt"

	"marketplace_chat_console/pkg/logger"

	"errors"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap wrap err with message and log it
func Wrap(msg string, err error) error {
	logger.Log.Errorf(msg, err)
	return fmt.Errorf("%s: %w", msg, err)
}
