// Package store keeps a sqlite log of what the bot sees in its channels.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

// Store is the bot database. Times are stored in UTC so that they sort as
// text.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite serializes writes anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AddMessage(ctx context.Context, msg Message) error {
	msg.Time = msg.Time.UTC()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO messages (channel, nick, text, time) VALUES (:channel, :nick, :text, :time)`,
		msg)
	if err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// Messages returns the last messages of a channel, oldest first.
func (s *Store) Messages(ctx context.Context, channel string, limit int) ([]Message, error) {
	var messages []Message
	err := s.db.SelectContext(ctx, &messages,
		`SELECT * FROM messages
		 WHERE channel = ? COLLATE NOCASE
		 ORDER BY time DESC, id DESC
		 LIMIT ?`,
		channel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// LastMessageFrom returns the most recent message of nick in any channel.
func (s *Store) LastMessageFrom(ctx context.Context, nick string) (Message, error) {
	var msg Message
	err := s.db.GetContext(ctx, &msg,
		`SELECT * FROM messages
		 WHERE nick = ? COLLATE NOCASE
		 ORDER BY time DESC, id DESC
		 LIMIT 1`,
		nick)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	} else if err != nil {
		return Message{}, fmt.Errorf("failed to get last message: %w", err)
	}
	return msg, nil
}

func (s *Store) AddLinks(ctx context.Context, links []Link) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].Time = links[i].Time.UTC()
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO links (channel, nick, url, time) VALUES (:channel, :nick, :url, :time)`,
		links)
	if err != nil {
		return fmt.Errorf("failed to add links: %w", err)
	}
	return nil
}

// Links returns the last links posted in a channel, newest first.
func (s *Store) Links(ctx context.Context, channel string, limit int) ([]Link, error) {
	var links []Link
	err := s.db.SelectContext(ctx, &links,
		`SELECT * FROM links
		 WHERE channel = ? COLLATE NOCASE
		 ORDER BY time DESC, id DESC
		 LIMIT ?`,
		channel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	return links, nil
}

func (s *Store) SetTopic(ctx context.Context, topic Topic) error {
	topic.SetAt = topic.SetAt.UTC()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO topics (channel, topic, set_by, set_at) VALUES (:channel, :topic, :set_by, :set_at)
		 ON CONFLICT(channel) DO UPDATE SET topic = excluded.topic, set_by = excluded.set_by, set_at = excluded.set_at`,
		topic)
	if err != nil {
		return fmt.Errorf("failed to set topic: %w", err)
	}
	return nil
}

func (s *Store) Topic(ctx context.Context, channel string) (Topic, error) {
	var topic Topic
	err := s.db.GetContext(ctx, &topic, `SELECT * FROM topics WHERE channel = ?`, channel)
	if errors.Is(err, sql.ErrNoRows) {
		return Topic{}, ErrNotFound
	} else if err != nil {
		return Topic{}, fmt.Errorf("failed to get topic: %w", err)
	}
	return topic, nil
}
