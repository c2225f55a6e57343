package irc

type Event interface{}

// RegisteredEvent is emitted on RPL_WELCOME.
type RegisteredEvent struct {
	Nick string
}

// DisconnectedEvent is emitted by Session.HandleDisconnect. Err is nil on a
// clean end of stream.
type DisconnectedEvent struct {
	Err error
}

// MessageEvent is emitted for every line that was not filtered out, before
// it is handled.
type MessageEvent struct {
	Message Message
}

type PrivateMessageEvent struct {
	Sender Nick
	Text   string
}

type ChannelMessageEvent struct {
	Sender  Nick
	Channel *Channel
	Text    string
}

type JoinEvent struct {
	Nick    Nick
	Channel *Channel
}

type PartEvent struct {
	Nick    Nick
	Channel *Channel
	Reason  string
}

type KickEvent struct {
	Actor   Nick // who kicked
	Nick    Nick // who was kicked
	Channel *Channel
	Reason  string
}

// QuitEvent is emitted once per channel the quitting user was in.
type QuitEvent struct {
	Nick    Nick
	Channel *Channel
	Reason  string
}

type TopicEvent struct {
	Nick    Nick
	Channel *Channel
}

type NickEvent struct {
	Nick    Nick // former identity
	NewNick string
}
