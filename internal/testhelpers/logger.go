package testhelpers

import (
	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// NewTestLogger creates a logger suitable for testing (discards output).
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}
