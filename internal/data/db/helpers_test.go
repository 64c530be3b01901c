package db

import "github.com/yungbote/kanoon-backend/internal/platform/logger"

func nopLogger() *logger.Logger { return logger.NewNop() }
