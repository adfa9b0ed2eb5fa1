package router

import (
	"github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
)

func shouldRetry(logger *logger.Logger, err error) bool {
	if errors.IsRetryable(err) {
		logger.Debugw("retrying due to transient error", "error", err)
		return true
	}

	// Malformed or rejected notifications will not improve on retry
	if errors.IsValidation(err) ||
		errors.IsNotFound(err) ||
		errors.IsInvalidOperation(err) {
		return false
	}

	// By default, retry unknown errors
	return true
}
