package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Per-channel markup percentages (fractions in [0,1])
CREATE TABLE IF NOT EXISTS channel_configs(
  channel_id TEXT PRIMARY KEY,
  customer_tax            REAL NOT NULL CHECK (customer_tax BETWEEN 0 AND 1),
  customer_labor_fee      REAL NOT NULL CHECK (customer_labor_fee BETWEEN 0 AND 1),
  customer_selling_profit REAL NOT NULL CHECK (customer_selling_profit BETWEEN 0 AND 1),
  collab_tax              REAL NOT NULL CHECK (collab_tax BETWEEN 0 AND 1),
  collab_labor_fee        REAL NOT NULL CHECK (collab_labor_fee BETWEEN 0 AND 1),
  collab_selling_profit   REAL NOT NULL CHECK (collab_selling_profit BETWEEN 0 AND 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Published sets; override columns are NULL = inherit from channel config
CREATE TABLE IF NOT EXISTS gold_sets(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  channel_id TEXT NOT NULL,
  channel_message_id INTEGER NOT NULL,
  weight REAL NOT NULL CHECK (weight > 0),
  caption TEXT NOT NULL DEFAULT '',
  customer_tax            REAL CHECK (customer_tax IS NULL OR customer_tax BETWEEN 0 AND 1),
  customer_labor_fee      REAL CHECK (customer_labor_fee IS NULL OR customer_labor_fee BETWEEN 0 AND 1),
  customer_selling_profit REAL CHECK (customer_selling_profit IS NULL OR customer_selling_profit BETWEEN 0 AND 1),
  collab_tax              REAL CHECK (collab_tax IS NULL OR collab_tax BETWEEN 0 AND 1),
  collab_labor_fee        REAL CHECK (collab_labor_fee IS NULL OR collab_labor_fee BETWEEN 0 AND 1),
  collab_selling_profit   REAL CHECK (collab_selling_profit IS NULL OR collab_selling_profit BETWEEN 0 AND 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_gold_sets_channel_msg ON gold_sets(channel_id, channel_message_id);

-- One row per "price now" press on a published set
CREATE TABLE IF NOT EXISTS price_checks(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  gold_set_id INTEGER NOT NULL REFERENCES gold_sets(id) ON DELETE CASCADE,
  checked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_checks_set_time ON price_checks(gold_set_id, checked_at);

-- Cached upstream spot prices (unix seconds)
CREATE TABLE IF NOT EXISTS spot_samples(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  price REAL NOT NULL CHECK (price > 0),
  fetched_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL
);

-- Access control
CREATE TABLE IF NOT EXISTS admins(
  user_id INTEGER PRIMARY KEY,
  channel_id TEXT NOT NULL,
  username TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_admins_channel ON admins(channel_id);

CREATE TABLE IF NOT EXISTS collaborators(
  user_id INTEGER PRIMARY KEY,
  username TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS invite_tokens(
  token TEXT PRIMARY KEY,
  type TEXT NOT NULL CHECK (type IN ('collab','admin')),
  channel_id TEXT NOT NULL DEFAULT '',
  created_by INTEGER NOT NULL,
  used INTEGER NOT NULL DEFAULT 0,
  expires_at INTEGER NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}
