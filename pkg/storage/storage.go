package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/dealhound/dealhound/pkg/deals"
)

// DB is an append-only store of surfaced opportunities. Downstream
// consumers read them back in insertion order.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS opportunities (
  id                  INTEGER PRIMARY KEY,
  product_description TEXT NOT NULL,
  price               REAL NOT NULL,
  url                 TEXT NOT NULL,
  merchant_domain     TEXT,
  estimate            REAL NOT NULL,
  discount            REAL NOT NULL,
  created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_opportunities_domain ON opportunities(merchant_domain);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Append stores one opportunity, stamping the merchant's registrable
// domain so stored rows can be grouped by site.
func (d *DB) Append(ctx context.Context, opp deals.Opportunity) error {
	domain, _ := MerchantDomain(opp.Deal.URL)
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO opportunities(product_description, price, url, merchant_domain, estimate, discount) VALUES(?,?,?,?,?,?)`,
		opp.Deal.ProductDescription, opp.Deal.Price, opp.Deal.URL, domain, opp.Estimate, opp.Discount)
	return err
}

// List returns all stored opportunities in insertion order.
func (d *DB) List(ctx context.Context) ([]deals.Opportunity, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT product_description, price, url, estimate, discount FROM opportunities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []deals.Opportunity
	for rows.Next() {
		var opp deals.Opportunity
		if err := rows.Scan(&opp.Deal.ProductDescription, &opp.Deal.Price, &opp.Deal.URL, &opp.Estimate, &opp.Discount); err != nil {
			return nil, err
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}
