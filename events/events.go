// Package events fans the events of an irc.Session out to any number of
// subscribers. A subscriber implements the handler interfaces it cares
// about and nothing else.
package events

import (
	"sync"

	"github.com/kylef/irctk/irc"
)

type RegisteredHandler interface {
	OnRegistered(s *irc.Session)
}

type DisconnectedHandler interface {
	OnDisconnected(s *irc.Session, err error)
}

// RawFilter sees every incoming line before it is handled. Returning false
// drops the line.
type RawFilter interface {
	FilterRaw(line string) bool
}

type MessageHandler interface {
	OnMessage(s *irc.Session, msg irc.Message)
}

type PrivateMessageHandler interface {
	OnPrivateMessage(s *irc.Session, sender irc.Nick, text string)
}

type ChannelMessageHandler interface {
	OnChannelMessage(s *irc.Session, sender irc.Nick, channel *irc.Channel, text string)
}

type JoinHandler interface {
	OnJoin(s *irc.Session, nick irc.Nick, channel *irc.Channel)
}

type PartHandler interface {
	OnPart(s *irc.Session, nick irc.Nick, channel *irc.Channel, reason string)
}

type KickHandler interface {
	OnKick(s *irc.Session, actor, nick irc.Nick, channel *irc.Channel, reason string)
}

type QuitHandler interface {
	OnQuit(s *irc.Session, nick irc.Nick, channel *irc.Channel, reason string)
}

type TopicHandler interface {
	OnTopic(s *irc.Session, nick irc.Nick, channel *irc.Channel)
}

type NickHandler interface {
	OnNick(s *irc.Session, nick irc.Nick, newNick string)
}

// Bus dispatches events to its subscribers, in subscription order.
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscription
}

type subscription struct {
	sub any
}

// Subscribe adds sub to the bus. The returned function removes it.
func (b *Bus) Subscribe(sub any) (unsubscribe func()) {
	s := &subscription{sub: sub}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, s)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subscribers {
			if b.subscribers[i] == s {
				b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) snapshot() []any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := make([]any, len(b.subscribers))
	for i, s := range b.subscribers {
		subs[i] = s.sub
	}
	return subs
}

// Raw asks every RawFilter whether line should be handled. It is meant as
// irc.SessionParams.RawFilter.
func (b *Bus) Raw(line string) bool {
	keep := true
	for _, sub := range b.snapshot() {
		if f, ok := sub.(RawFilter); ok && !f.FilterRaw(line) {
			keep = false
		}
	}
	return keep
}

// Dispatch delivers events, as returned by the session, to the subscribers.
func (b *Bus) Dispatch(s *irc.Session, events []irc.Event) {
	subs := b.snapshot()
	for _, ev := range events {
		for _, sub := range subs {
			dispatch(s, sub, ev)
		}
	}
}

func dispatch(s *irc.Session, sub any, ev irc.Event) {
	switch ev := ev.(type) {
	case irc.RegisteredEvent:
		if h, ok := sub.(RegisteredHandler); ok {
			h.OnRegistered(s)
		}
	case irc.DisconnectedEvent:
		if h, ok := sub.(DisconnectedHandler); ok {
			h.OnDisconnected(s, ev.Err)
		}
	case irc.MessageEvent:
		if h, ok := sub.(MessageHandler); ok {
			h.OnMessage(s, ev.Message)
		}
	case irc.PrivateMessageEvent:
		if h, ok := sub.(PrivateMessageHandler); ok {
			h.OnPrivateMessage(s, ev.Sender, ev.Text)
		}
	case irc.ChannelMessageEvent:
		if h, ok := sub.(ChannelMessageHandler); ok {
			h.OnChannelMessage(s, ev.Sender, ev.Channel, ev.Text)
		}
	case irc.JoinEvent:
		if h, ok := sub.(JoinHandler); ok {
			h.OnJoin(s, ev.Nick, ev.Channel)
		}
	case irc.PartEvent:
		if h, ok := sub.(PartHandler); ok {
			h.OnPart(s, ev.Nick, ev.Channel, ev.Reason)
		}
	case irc.KickEvent:
		if h, ok := sub.(KickHandler); ok {
			h.OnKick(s, ev.Actor, ev.Nick, ev.Channel, ev.Reason)
		}
	case irc.QuitEvent:
		if h, ok := sub.(QuitHandler); ok {
			h.OnQuit(s, ev.Nick, ev.Channel, ev.Reason)
		}
	case irc.TopicEvent:
		if h, ok := sub.(TopicHandler); ok {
			h.OnTopic(s, ev.Nick, ev.Channel)
		}
	case irc.NickEvent:
		if h, ok := sub.(NickHandler); ok {
			h.OnNick(s, ev.Nick, ev.NewNick)
		}
	}
}
