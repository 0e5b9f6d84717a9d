package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/nikki/internal/journal"
	"github.com/foxseedlab/nikki/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

// Shutdown is called by the injector when the process exits.
func (r *PostgresRepository) Shutdown() {
	r.pool.Close()
}

func (r *PostgresRepository) GetLog(ctx context.Context, date string) ([]journal.Message, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT messages FROM session_logs WHERE log_date = $1`, date).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []journal.Message{}, nil
		}
		return nil, err
	}
	return decodeMessages(date, raw), nil
}

func (r *PostgresRepository) SaveLog(ctx context.Context, date string, messages []journal.Message) error {
	if messages == nil {
		messages = []journal.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO session_logs (log_date, messages, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (log_date) DO UPDATE SET messages = EXCLUDED.messages, updated_at = NOW()`,
		date, raw)
	return err
}

func (r *PostgresRepository) ListLogDates(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT log_date FROM session_logs ORDER BY log_date ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresRepository) DeleteLogs(ctx context.Context, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM session_logs WHERE log_date = ANY($1)`, dates)
	return err
}

func (r *PostgresRepository) ExportLogs(ctx context.Context) (map[string][]journal.Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT log_date, messages FROM session_logs ORDER BY log_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]journal.Message)
	for rows.Next() {
		var (
			date string
			raw  []byte
		)
		if err := rows.Scan(&date, &raw); err != nil {
			return nil, err
		}
		out[date] = decodeMessages(date, raw)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetUserConfig(ctx context.Context) (*journal.UserConfig, error) {
	var c journal.UserConfig
	err := r.pool.QueryRow(ctx,
		`SELECT name, notion_key, notion_db, report_time, bubble_color FROM user_config WHERE id = 1`).
		Scan(&c.Name, &c.NotionKey, &c.NotionDB, &c.ReportTime, &c.BubbleColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) SaveUserConfig(ctx context.Context, cfg journal.UserConfig) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_config (id, name, notion_key, notion_db, report_time, bubble_color, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   notion_key = EXCLUDED.notion_key,
		   notion_db = EXCLUDED.notion_db,
		   report_time = EXCLUDED.report_time,
		   bubble_color = EXCLUDED.bubble_color,
		   updated_at = NOW()`,
		cfg.Name, cfg.NotionKey, cfg.NotionDB, cfg.ReportTime, cfg.BubbleColor)
	return err
}

// decodeMessages returns an empty log for an unreadable bucket.
func decodeMessages(date string, raw []byte) []journal.Message {
	msgs := []journal.Message{}
	if len(raw) == 0 {
		return msgs
	}
	if err := json.Unmarshal(raw, &msgs); err != nil {
		slog.Warn("stored log is unreadable; treating as empty", "date", date, "error", err)
		return []journal.Message{}
	}
	return msgs
}
