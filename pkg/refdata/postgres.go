package refdata

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresProvider loads reference data from the pricing database. The
// database usually sits behind an SSH tunnel, so the DSN typically points at
// a forwarded local port.
type PostgresProvider struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresProvider opens a connection pool against the pricing database.
func NewPostgresProvider(dsn string, logger *zap.Logger) (*PostgresProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open pricing database: %w", err)
	}
	return &PostgresProvider{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

// LoadSnapshot reads all reference tables into an immutable Snapshot. One
// round of queries up front keeps the concurrent per-region evaluations off
// the database entirely.
func (p *PostgresProvider) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Factors:       make(map[string]RegionFactor),
		ExchangeRates: make(map[string]float64),
		AllowFlags:    make(map[string]string),
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT region, usd_factor, local_factor FROM china.region_markup_factor`)
	if err != nil {
		return nil, fmt.Errorf("query region markup factors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var region string
		var f RegionFactor
		if err := rows.Scan(&region, &f.USDFactor, &f.LocalFactor); err != nil {
			return nil, fmt.Errorf("scan region markup factor: %w", err)
		}
		snap.Factors[normalizeRegion(region)] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region markup factors: %w", err)
	}

	rateRows, err := p.db.QueryContext(ctx,
		`SELECT region, rate FROM china.sys_exchange_rate`)
	if err != nil {
		return nil, fmt.Errorf("query exchange rates: %w", err)
	}
	defer rateRows.Close()
	for rateRows.Next() {
		var region string
		var rate float64
		if err := rateRows.Scan(&region, &rate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		snap.ExchangeRates[normalizeRegion(region)] = rate
	}
	if err := rateRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchange rates: %w", err)
	}

	err = p.db.QueryRowContext(ctx,
		`SELECT level1, level2 FROM china.lp_overwrite_threshold LIMIT 1`).
		Scan(&snap.ThresholdLevel1, &snap.ThresholdLevel2)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("query overwrite thresholds: %w", err)
	}

	flagRows, err := p.db.QueryContext(ctx,
		`SELECT action_code, allow_flag FROM china.pvc_allow_flag`)
	if err != nil {
		return nil, fmt.Errorf("query pvc allow flags: %w", err)
	}
	defer flagRows.Close()
	for flagRows.Next() {
		var code, flag string
		if err := flagRows.Scan(&code, &flag); err != nil {
			return nil, fmt.Errorf("scan pvc allow flag: %w", err)
		}
		snap.AllowFlags[code] = flag
	}
	if err := flagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pvc allow flags: %w", err)
	}

	p.logger.Debug("loaded reference snapshot",
		zap.String("op", "refdata.PostgresProvider.LoadSnapshot"),
		zap.Int("regions", len(snap.Factors)),
		zap.Int("allowFlags", len(snap.AllowFlags)),
	)
	return snap, nil
}

// MarkupPair is a list-pricing record joined to its owning markup record
// through the mapping table. The audit checks the two sides agree on the
// markup factor.
type MarkupPair struct {
	ListPricingCode string
	MarkupCode      string
	LPFactor        float64
	CMFactor        float64
}

// MarkupPairs resolves up to limit list-pricing/markup pairs from the
// mapping table, carrying each side's markup factor.
func (p *PostgresProvider) MarkupPairs(ctx context.Context, limit int) ([]MarkupPair, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT list_price_id, markup_id FROM china.list_pricing_markup_mapping LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query markup mapping: %w", err)
	}
	defer rows.Close()

	type idPair struct{ listPriceID, markupID int64 }
	var ids []idPair
	for rows.Next() {
		var pair idPair
		if err := rows.Scan(&pair.listPriceID, &pair.markupID); err != nil {
			return nil, fmt.Errorf("scan markup mapping: %w", err)
		}
		ids = append(ids, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markup mapping: %w", err)
	}

	pairs := make([]MarkupPair, 0, len(ids))
	for _, id := range ids {
		var pair MarkupPair
		err := p.db.QueryRowContext(ctx,
			`SELECT code, markup_factor FROM china.markup WHERE id = $1`, id.markupID).
			Scan(&pair.MarkupCode, &pair.CMFactor)
		if err != nil {
			return nil, fmt.Errorf("resolve markup code %d: %w", id.markupID, err)
		}
		err = p.db.QueryRowContext(ctx,
			`SELECT code, markup_factor FROM china.list_pricing WHERE id = $1`, id.listPriceID).
			Scan(&pair.ListPricingCode, &pair.LPFactor)
		if err != nil {
			return nil, fmt.Errorf("resolve list pricing code %d: %w", id.listPriceID, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
