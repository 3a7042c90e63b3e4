package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ChainPulse/internal/domain/models"
	domrepo "ChainPulse/internal/domain/repository"
	pkgch "ChainPulse/pkg/clickhouse"
	applogger "ChainPulse/pkg/logger"
)

// CHResultStore implements ResultStorage backed by ClickHouse.
type CHResultStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHResultStore(ch *pkgch.Client) *CHResultStore {
	return &CHResultStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHResultStore) SetLogger(l *applogger.Logger) { s.l = l }

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS chain_signals (
        ts DateTime64(3),
        symbol LowCardinality(String),
        id String,
        pattern LowCardinality(String),
        direction LowCardinality(String),
        strength LowCardinality(String),
        priority LowCardinality(String),
        confidence Float64,
        spot Float64,
        message String,
        details String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (symbol, ts)`,
	`CREATE TABLE IF NOT EXISTS chain_results (
        ts DateTime64(3),
        symbol LowCardinality(String),
        bias LowCardinality(String),
        total UInt32,
        avg_confidence Float64,
        trend LowCardinality(String),
        volatility LowCardinality(String),
        volume_profile LowCardinality(String),
        support Float64,
        resistance Float64,
        vwap Float64,
        max_pain Float64
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (symbol, ts)`,
	`CREATE TABLE IF NOT EXISTS chain_advanced (
        ts DateTime64(3),
        symbol LowCardinality(String),
        overall_skew Float64,
        skew_velocity Float64,
        gex_total Float64,
        zero_gamma Float64,
        dominant_zone LowCardinality(String),
        max_pain Float64,
        payload String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (symbol, ts)`,
}

// Init creates the analysis tables (idempotent).
func (s *CHResultStore) Init(ctx context.Context) error {
	for _, stmt := range schemaStmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// StoreResult persists one cycle summary row plus one row per signal.
func (s *CHResultStore) StoreResult(ctx context.Context, r *models.AnalysisResult) error {
	const q = `INSERT INTO chain_results
        (ts, symbol, bias, total, avg_confidence, trend, volatility, volume_profile, support, resistance, vwap, max_pain)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		r.Timestamp,
		r.Symbol,
		string(r.Summary.Bias),
		uint32(r.Summary.Total),
		r.Summary.AvgConfidence,
		r.State.Trend,
		r.State.Volatility,
		r.State.VolumeProfile,
		r.State.Support,
		r.State.Resistance,
		r.State.VWAP,
		r.State.MaxPain,
	)
	if err != nil {
		s.logErr("store_result", r.Symbol, err)
		return fmt.Errorf("store result: %w", err)
	}
	return s.storeSignals(ctx, r.Symbol, r.Signals)
}

func (s *CHResultStore) storeSignals(ctx context.Context, symbol string, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*11)
	for _, sig := range signals {
		details, _ := json.Marshal(sig.Details)
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sig.Timestamp,
			symbol,
			sig.ID,
			string(sig.Pattern),
			string(sig.Direction),
			string(sig.Strength),
			string(sig.Priority),
			sig.Confidence,
			sig.SpotPrice,
			sig.Message,
			string(details),
		)
	}
	q := "INSERT INTO chain_signals (ts, symbol, id, pattern, direction, strength, priority, confidence, spot, message, details) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logErr("store_signals", symbol, err)
		return fmt.Errorf("store signals: %w", err)
	}
	return nil
}

// StoreAdvanced persists one advanced-metrics row with the full payload
// as JSON for ad-hoc inspection.
func (s *CHResultStore) StoreAdvanced(ctx context.Context, m *models.AdvancedMetrics) error {
	payload, _ := json.Marshal(m)
	const q = `INSERT INTO chain_advanced
        (ts, symbol, overall_skew, skew_velocity, gex_total, zero_gamma, dominant_zone, max_pain, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		m.Timestamp,
		m.Symbol,
		m.IVSkew.Overall,
		m.IVSkew.Velocity,
		m.GEX.Total,
		m.GEX.ZeroGammaLevel,
		m.GEX.DominantZone,
		m.MaxPain,
		string(payload),
	)
	if err != nil {
		s.logErr("store_advanced", m.Symbol, err)
		return fmt.Errorf("store advanced: %w", err)
	}
	return nil
}

// QuerySignals returns stored signals for a symbol and time range, newest
// first.
func (s *CHResultStore) QuerySignals(ctx context.Context, symbol string, from, to time.Time, minConfidence float64, limit int) ([]models.Signal, error) {
	const q = `SELECT ts, id, pattern, direction, strength, priority, confidence, spot, message, details
        FROM chain_signals
        WHERE symbol = ? AND ts >= ? AND ts <= ? AND confidence >= ?
        ORDER BY ts DESC
        LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, minConfidence, limit)
	if err != nil {
		s.logErr("query_signals", symbol, err)
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.Signal, 0, 64)
	for rows.Next() {
		var sig models.Signal
		var pattern, direction, strength, priority, details string
		if err := rows.Scan(&sig.Timestamp, &sig.ID, &pattern, &direction, &strength, &priority, &sig.Confidence, &sig.SpotPrice, &sig.Message, &details); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Pattern = models.Pattern(pattern)
		sig.Direction = models.Direction(direction)
		sig.Strength = models.Strength(strength)
		sig.Priority = models.Priority(priority)
		if details != "" {
			_ = json.Unmarshal([]byte(details), &sig.Details)
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHResultStore) Close() error {
	return nil // Managed by pkg
}

func (s *CHResultStore) logErr(op, symbol string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+op+" error",
		applogger.String("symbol", symbol),
		applogger.Error(err),
	)
}

var _ domrepo.ResultStorage = (*CHResultStore)(nil)
