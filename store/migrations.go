package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the tables that do not exist yet.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		createMessagesTable,
		createLinksTable,
		createTopicsTable,
		createIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	channel TEXT NOT NULL,
	nick TEXT NOT NULL,
	text TEXT NOT NULL,
	time DATETIME NOT NULL
);`

const createLinksTable = `
CREATE TABLE IF NOT EXISTS links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	channel TEXT NOT NULL,
	nick TEXT NOT NULL,
	url TEXT NOT NULL,
	time DATETIME NOT NULL
);`

const createTopicsTable = `
CREATE TABLE IF NOT EXISTS topics (
	channel TEXT PRIMARY KEY COLLATE NOCASE,
	topic TEXT NOT NULL,
	set_by TEXT NOT NULL,
	set_at DATETIME NOT NULL
);`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_messages_channel_time ON messages(channel COLLATE NOCASE, time);
CREATE INDEX IF NOT EXISTS idx_messages_nick_time ON messages(nick COLLATE NOCASE, time);
CREATE INDEX IF NOT EXISTS idx_links_channel_time ON links(channel COLLATE NOCASE, time);
`
