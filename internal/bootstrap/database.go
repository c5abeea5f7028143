package bootstrap

import (
	"fmt"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/database"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// SetupDatabase creates the database connection.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	return db, nil
}
