package store

import "time"

// Message is a line said in a channel.
type Message struct {
	ID      int64     `db:"id"`
	Channel string    `db:"channel"`
	Nick    string    `db:"nick"`
	Text    string    `db:"text"`
	Time    time.Time `db:"time"`
}

// Link is a URL found in a channel message.
type Link struct {
	ID      int64     `db:"id"`
	Channel string    `db:"channel"`
	Nick    string    `db:"nick"`
	URL     string    `db:"url"`
	Time    time.Time `db:"time"`
}

// Topic is the last known topic of a channel.
type Topic struct {
	Channel string    `db:"channel"`
	Topic   string    `db:"topic"`
	SetBy   string    `db:"set_by"`
	SetAt   time.Time `db:"set_at"`
}
