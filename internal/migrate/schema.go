package migrate

import (
	"context"
	"database/sql"

	"agrimap/internal/logger"
)

// 背景：首次运行自动创建构建统计表；只存计数，不存任何合成属性
// 约束：语句均可重复执行
var statements = []string{
	`CREATE TABLE IF NOT EXISTS _map_stats_total (
        id INT PRIMARY KEY,
        total_builds BIGINT NOT NULL DEFAULT 0,
        empty_builds BIGINT NOT NULL DEFAULT 0,
        failed_builds BIGINT NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS _map_stats_daily (
        day DATE PRIMARY KEY,
        builds BIGINT NOT NULL DEFAULT 0,
        failures BIGINT NOT NULL DEFAULT 0
    )`,
	`INSERT INTO _map_stats_total(id, total_builds, empty_builds, failed_builds)
     VALUES(1, 0, 0, 0)
     ON CONFLICT (id) DO NOTHING`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
