// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL,
	size REAL NOT NULL,
	leverage REAL,
	stop_loss REAL,
	take_profit REAL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME,
	status TEXT NOT NULL,
	pnl REAL,
	risk_reward REAL,
	mode TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_mode_entry ON trades(mode, entry_time);

CREATE TABLE IF NOT EXISTS lockout (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	enabled INTEGER NOT NULL,
	block_on_violation INTEGER NOT NULL,
	duration TEXT NOT NULL,
	blocked_until DATETIME,
	updated_at DATETIME NOT NULL
);
`
