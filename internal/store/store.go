// 包 store: 构建统计的 PostgreSQL 访问层
package store

import (
	"context"
	"database/sql"

	"agrimap/internal/logger"
)

// Store: 持有连接池；nil *Store 的所有方法均为空操作，便于未配置数据库时直接传递
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Outcome: 一次构建的结果分类
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeFailed
)

// RecordBuild: 递增累计与当日计数；统计不影响构建结果，写库失败仅记录日志
func (s *Store) RecordBuild(ctx context.Context, o Outcome) {
	if s == nil {
		return
	}
	var err error
	switch o {
	case OutcomeFailed:
		_, err = s.db.ExecContext(ctx, "UPDATE _map_stats_total SET failed_builds=failed_builds+1 WHERE id=1")
		if err == nil {
			_, err = s.db.ExecContext(ctx, "INSERT INTO _map_stats_daily(day, failures) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET failures=_map_stats_daily.failures+1")
		}
	default:
		q := "UPDATE _map_stats_total SET total_builds=total_builds+1 WHERE id=1"
		if o == OutcomeEmpty {
			q = "UPDATE _map_stats_total SET total_builds=total_builds+1, empty_builds=empty_builds+1 WHERE id=1"
		}
		_, err = s.db.ExecContext(ctx, q)
		if err == nil {
			_, err = s.db.ExecContext(ctx, "INSERT INTO _map_stats_daily(day, builds) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET builds=_map_stats_daily.builds+1")
		}
	}
	if err != nil {
		logger.L().Warn("stats_write_error", "outcome", int(o), "err", err)
		return
	}
	logger.L().Debug("stats_incr", "outcome", int(o))
}

// Totals: 累计与当日构建次数
type Totals struct {
	Total  int64 `json:"total"`
	Empty  int64 `json:"empty"`
	Failed int64 `json:"failed"`
	Today  int64 `json:"today"`
}

// GetTotals: 当日无记录时 Today 为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	if s == nil {
		return &t, nil
	}
	row := s.db.QueryRowContext(ctx, "SELECT total_builds, empty_builds, failed_builds FROM _map_stats_total WHERE id=1")
	if err := row.Scan(&t.Total, &t.Empty, &t.Failed); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT builds FROM _map_stats_daily WHERE day=current_date")
	if err := row2.Scan(&t.Today); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
