package dataset

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS transactions (
	entity_name     TEXT NOT NULL,
	property_name   TEXT NOT NULL,
	tenant_name     TEXT,
	ledger_type     TEXT NOT NULL,
	ledger_category TEXT,
	amount          REAL NOT NULL,
	year            TEXT NOT NULL,
	quarter         TEXT NOT NULL,
	month           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_property ON transactions(property_name);
CREATE INDEX IF NOT EXISTS idx_transactions_year ON transactions(year);
`

func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "dataset: exec %s", pragma)
		}
	}
	return db, nil
}

// LoadSQLite reads the full ledger from a SQLite database file into memory.
// The database is closed afterwards; the pipeline only ever sees the
// immutable in-memory table.
func LoadSQLite(ctx context.Context, dsn string) (*Dataset, error) {
	db, err := openSQLite(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT entity_name, property_name, tenant_name, ledger_type,
		        ledger_category, amount, year, quarter, month
		 FROM transactions`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: query transactions")
	}
	defer rows.Close()

	var records []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var tenant, category sql.NullString
		if err := rows.Scan(
			&tx.Entity, &tx.Property, &tenant, &tx.LedgerType,
			&category, &tx.Amount, &tx.Year, &tx.Quarter, &tx.Month,
		); err != nil {
			return nil, eris.Wrap(err, "dataset: scan transaction")
		}
		tx.Tenant = tenant.String
		tx.LedgerCategory = category.String
		records = append(records, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: iterate transactions")
	}

	zap.L().Info("dataset: loaded sqlite",
		zap.String("dsn", dsn),
		zap.Int("records", len(records)),
	)
	return New(records), nil
}

// ImportSQLite writes records into a SQLite database, creating the schema if
// needed. Used by the dataset import command to convert a CSV ledger.
func ImportSQLite(ctx context.Context, dsn string, records []model.Transaction) error {
	db, err := openSQLite(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "dataset: migrate")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "dataset: begin import")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (entity_name, property_name, tenant_name,
		        ledger_type, ledger_category, amount, year, quarter, month)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "dataset: prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Entity, r.Property, r.Tenant, string(r.LedgerType),
			r.LedgerCategory, r.Amount, r.Year, r.Quarter, r.Month,
		); err != nil {
			return eris.Wrap(err, "dataset: insert transaction")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "dataset: commit import")
	}
	return nil
}
