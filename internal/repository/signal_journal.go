package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
)

// SignalJournalSchema creates the emitted-signal history table.
var SignalJournalSchema = []string{
	`CREATE TABLE IF NOT EXISTS signals (
		ts          DateTime,
		pair        String,
		timeframe   String,
		signal_type String,
		confidence  UInt8,
		grade       String,
		entry       Float64,
		stop_loss   Float64,
		take_profit Float64,
		ml_boost    Int32,
		stake       String,
		reasoning   String
	) ENGINE = MergeTree()
	ORDER BY (pair, ts)
	TTL ts + INTERVAL 30 DAY`,
}

// ClickHouseSignalJournal persists emitted signals for the dashboard
// history view.
type ClickHouseSignalJournal struct {
	db    *sql.DB
	table string
}

// NewClickHouseSignalJournal creates a journal over the given table.
func NewClickHouseSignalJournal(db *sql.DB, table string) domrepo.SignalJournal {
	return &ClickHouseSignalJournal{db: db, table: table}
}

func (j *ClickHouseSignalJournal) Insert(ctx context.Context, sig *models.SignalAnalysis) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(ts, pair, timeframe, signal_type, confidence, grade, entry, stop_loss, take_profit, ml_boost, stake, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, j.table)
	_, err := j.db.ExecContext(ctx, q,
		sig.GeneratedAt,
		sig.Pair,
		sig.Timeframe,
		string(sig.SignalType),
		uint8(sig.Confidence),
		string(sig.SignalGrade),
		sig.Entry,
		sig.StopLoss,
		sig.TakeProfit,
		int32(sig.MLConfidenceBoost),
		string(sig.StakeAdvice),
		strings.Join(sig.Reasoning, "; "),
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

func (j *ClickHouseSignalJournal) Recent(ctx context.Context, limit int) ([]models.SignalAnalysis, error) {
	q := fmt.Sprintf(`SELECT ts, pair, timeframe, signal_type, confidence, grade, entry, stop_loss, take_profit, ml_boost, stake, reasoning
		FROM %s ORDER BY ts DESC LIMIT ?`, j.table)
	rows, err := j.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []models.SignalAnalysis
	for rows.Next() {
		var (
			sig        models.SignalAnalysis
			ts         time.Time
			sigType    string
			confidence uint8
			grade      string
			mlBoost    int32
			stake      string
			reasoning  string
		)
		if err := rows.Scan(&ts, &sig.Pair, &sig.Timeframe, &sigType, &confidence, &grade,
			&sig.Entry, &sig.StopLoss, &sig.TakeProfit, &mlBoost, &stake, &reasoning); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.GeneratedAt = ts
		sig.SignalType = models.SignalType(sigType)
		sig.Confidence = int(confidence)
		sig.SignalGrade = models.SignalGrade(grade)
		sig.MLConfidenceBoost = int(mlBoost)
		sig.StakeAdvice = models.StakeAdvice(stake)
		if reasoning != "" {
			sig.Reasoning = strings.Split(reasoning, "; ")
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func (j *ClickHouseSignalJournal) Close() error {
	return nil // pool managed by pkg/clickhouse
}
