package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	Stats(ctx context.Context) (*entity.Stats, error)
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
}

type dbResult struct {
	conn *sql.DB
}

// NewResultRepository expects the results table created by storage.Init.
func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	const query = `INSERT OR REPLACE INTO results (game_id, winner, human_mark, difficulty, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.GameID,
		result.Winner,
		string(result.HumanMark),
		result.Difficulty,
		result.Moves,
		result.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) Stats(ctx context.Context) (*entity.Stats, error) {
	const query = `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN winner = human_mark THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0)
		FROM results`

	stats := &entity.Stats{}
	if err := that.conn.QueryRowContext(ctx, query, entity.PlayerTie).Scan(&stats.Games, &stats.Wins, &stats.Draws); err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	stats.Losses = stats.Games - stats.Wins - stats.Draws

	return stats, nil
}

func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.Result, error) {
	const query = `SELECT game_id, winner, human_mark, difficulty, moves, finished_at
		FROM results ORDER BY finished_at DESC, game_id LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*entity.Result
	for rows.Next() {
		var (
			result     entity.Result
			humanMark  string
			finishedAt int64
		)

		if err = rows.Scan(&result.GameID, &result.Winner, &humanMark, &result.Difficulty, &result.Moves, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		result.HumanMark = tictactoe.Mark(humanMark)
		result.FinishedAt = time.Unix(finishedAt, 0).UTC()
		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	return results, nil
}
