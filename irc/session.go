package irc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"
)

// ErrDisconnected fails the requests still pending when the connection is
// lost.
var ErrDisconnected = errors.New("disconnected")

// SupportedCapabilities is the set of capabilities requested by every
// session when the server offers them.
var SupportedCapabilities = []string{
	"account-tag",
	"multi-prefix",
}

const defaultLineLen = 512

// SessionParams defines how to register to an IRC server.
type SessionParams struct {
	Nickname string
	Username string // defaults to Nickname
	RealName string // defaults to Nickname
	Password string

	// Capabilities are requested in addition to SupportedCapabilities, e.g.
	// "batch" and "labeled-response".
	Capabilities []string

	Logger zerolog.Logger

	// RawFilter sees every incoming line before it is handled. Returning
	// false drops the line.
	RawFilter func(line string) bool
}

type handlerFunc func(s *Session, msg Message) error

var handlers map[string]handlerFunc

func init() {
	handlers = map[string]handlerFunc{
		rplWelcome:          (*Session).handleWelcome,
		rplIsupport:         (*Session).handleISupport,
		rplChannelmodeis:    (*Session).handleChannelModeIs,
		rplCreationtime:     (*Session).handleCreationTime,
		rplTopic:            (*Session).handleTopicReply,
		rplTopicwhotime:     (*Session).handleTopicWhoTime,
		rplWhoreply:         (*Session).handleWhoReply,
		rplNamreply:         (*Session).handleNamReply,
		errNonicknamegiven:  (*Session).handleNoNicknameGiven,
		errErroneusnickname: (*Session).handleNickRejected,
		errNicknameinuse:    (*Session).handleNickRejected,
		errNickcollision:    (*Session).handleNickRejected,
		CmdPing:             (*Session).handlePing,
		CmdCap:              (*Session).handleCap,
		CmdJoin:             (*Session).handleJoin,
		CmdPart:             (*Session).handlePart,
		CmdKick:             (*Session).handleKick,
		CmdQuit:             (*Session).handleQuit,
		CmdTopic:            (*Session).handleTopic,
		CmdNick:             (*Session).handleNick,
		CmdPrivmsg:          (*Session).handlePrivmsg,
		CmdMode:             (*Session).handleMode,
	}
}

// Session is the client side state of one IRC connection.
//
// A Session is not safe for concurrent use: messages must be handled one at
// a time, and the send methods called from the same goroutine.
type Session struct {
	out       chan<- Message
	closed    bool
	logger    zerolog.Logger
	rawFilter func(line string) bool

	registered  bool
	nick        string
	desiredNick string // last nickname sent before registration
	user        string
	host        string
	real        string
	wantedCaps  []string

	isupport *ISupport

	availableCaps map[string]string
	pendingCaps   []string
	enabledCaps   map[string]struct{}

	channels  []*Channel
	requests  []*Request
	batches   map[string][]Message
	lastLabel uint64

	events []Event // emitted by the message being handled
}

// NewSession sends the registration preamble to out and returns the
// session. out is closed by Close.
func NewSession(out chan<- Message, params SessionParams) *Session {
	s := &Session{
		out:           out,
		logger:        params.Logger,
		rawFilter:     params.RawFilter,
		nick:          params.Nickname,
		desiredNick:   params.Nickname,
		user:          params.Username,
		real:          params.RealName,
		isupport:      NewISupport(),
		availableCaps: map[string]string{},
		enabledCaps:   map[string]struct{}{},
		batches:       map[string][]Message{},
	}
	if s.user == "" {
		s.user = s.nick
	}
	if s.real == "" {
		s.real = s.nick
	}
	s.wantedCaps = append(s.wantedCaps, SupportedCapabilities...)
	s.wantedCaps = append(s.wantedCaps, params.Capabilities...)

	s.send(NewMessage(CmdCap, "LS"))
	if params.Password != "" {
		s.send(NewMessage(CmdPass, params.Password))
	}
	s.SendMessage(NewMessage(CmdNick, s.nick))
	user := NewMessage(CmdUser, s.user, "0", "*", s.real)
	user.ForceTrailing = true
	s.send(user)

	return s
}

func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

func (s *Session) send(msg Message) {
	if s.closed {
		return
	}
	s.out <- msg
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

// Nick returns the current nickname, as confirmed by the server once
// registered.
func (s *Session) Nick() string {
	return s.nick
}

// Self returns the identity of the local client. Ident and host are known
// after the WHO reply sent upon registration.
func (s *Session) Self() Nick {
	return Nick{Name: s.nick, Ident: s.user, Host: s.host}
}

// AltNickname returns the nickname tried after a collision.
func (s *Session) AltNickname() string {
	return s.desiredNick + "_"
}

func (s *Session) Registered() bool {
	return s.registered
}

func (s *Session) ISupport() *ISupport {
	return s.isupport
}

func (s *Session) IsMe(nick string) bool {
	return s.isupport.CaseEqual(s.nick, nick)
}

func (s *Session) IsChannel(name string) bool {
	return s.isupport.IsChannel(name)
}

func (s *Session) CaseEqual(a, b string) bool {
	return s.isupport.CaseEqual(a, b)
}

// HasCapability reports whether the given capability has been negotiated
// successfully.
func (s *Session) HasCapability(capability string) bool {
	_, ok := s.enabledCaps[capability]
	return ok
}

func (s *Session) wantsCap(name string) bool {
	for _, c := range s.wantedCaps {
		if c == name {
			return true
		}
	}
	return false
}

func (s *Session) removePendingCap(name string) {
	for i, c := range s.pendingCaps {
		if c == name {
			s.pendingCaps = append(s.pendingCaps[:i], s.pendingCaps[i+1:]...)
			return
		}
	}
}

// Channel returns the tracked channel of that name, or nil.
func (s *Session) Channel(name string) *Channel {
	if name == "" {
		return nil
	}
	for _, c := range s.channels {
		if s.CaseEqual(c.Name, name) {
			return c
		}
	}
	return nil
}

// Channels returns the tracked channels, in the order they were tracked.
func (s *Session) Channels() []*Channel {
	channels := make([]*Channel, len(s.channels))
	copy(channels, s.channels)
	return channels
}

// TrackChannel returns the channel of that name, creating it if needed. A
// non-empty key replaces the known key.
func (s *Session) TrackChannel(name, key string) *Channel {
	c := s.Channel(name)
	if c == nil {
		c = NewChannel(name)
		s.channels = append(s.channels, c)
	}
	if key != "" {
		c.Key = key
	}
	return c
}

// DropChannel forgets a channel and its history.
func (s *Session) DropChannel(name string) {
	for i, c := range s.channels {
		if s.CaseEqual(c.Name, name) {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			return
		}
	}
}

// PendingRequests returns the number of requests waiting for a reply.
func (s *Session) PendingRequests() int {
	return len(s.requests)
}

func (s *Session) lineLen() int {
	if v, ok := s.isupport.Token("LINELEN"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultLineLen
}

// SendMessage sends msg. If msg carries a label or is a NICK command, the
// returned request is resolved by the reply; otherwise it is nil.
func (s *Session) SendMessage(msg Message) *Request {
	var req *Request
	if _, ok := msg.Label(); ok || msg.Command == CmdNick {
		req = newRequest(msg)
		s.requests = append(s.requests, req)
	}
	s.send(msg)
	return req
}

func (s *Session) Send(command string, params ...string) *Request {
	return s.SendMessage(NewMessage(command, params...))
}

// Labeled sends msg with a fresh label. The server must have acknowledged
// labeled-response for the request to ever be resolved.
func (s *Session) Labeled(msg Message) *Request {
	s.lastLabel++
	return s.SendMessage(msg.WithTag("label", "irctk-"+strconv.FormatUint(s.lastLabel, 10)))
}

func (s *Session) Join(channel, key string) {
	if key == "" {
		s.send(NewMessage(CmdJoin, channel))
		return
	}
	s.TrackChannel(channel, key)
	s.send(NewMessage(CmdJoin, channel, key))
}

func (s *Session) Part(channel, reason string) {
	if reason == "" {
		s.send(NewMessage(CmdPart, channel))
	} else {
		s.send(NewMessage(CmdPart, channel, reason))
	}
}

func (s *Session) Quit(reason string) {
	if reason == "" {
		s.send(NewMessage(CmdQuit))
	} else {
		s.send(NewMessage(CmdQuit, reason))
	}
}

// ChangeNick asks for a new nickname. The request is resolved by the NICK
// echo, or failed by the error numeric rejecting it.
func (s *Session) ChangeNick(nick string) *Request {
	if !s.registered {
		s.desiredNick = nick
	}
	return s.SendMessage(NewMessage(CmdNick, nick))
}

func (s *Session) ChangeTopic(channel, topic string) {
	s.send(NewMessage(CmdTopic, channel, topic))
}

func (s *Session) ChangeMode(target, flags string, args ...string) {
	params := []string{target}
	if flags != "" {
		params = append(params, flags)
	}
	s.send(NewMessage(CmdMode, append(params, args...)...))
}

func (s *Session) Who(target string) {
	s.send(NewMessage(CmdWho, target))
}

func splitChunks(s string, chunkLen int) (chunks []string) {
	if chunkLen <= 0 || len(s) <= chunkLen {
		return []string{s}
	}

	b := 0
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cw := len(g.Str())
		if n > 0 && n+cw > chunkLen {
			chunks = append(chunks, s[b:b+n])
			b += n
			n = cw
			continue
		}
		n += cw
	}
	if b < len(s) {
		chunks = append(chunks, s[b:])
	}
	return
}

func (s *Session) sendText(command, target, content string) {
	hostLen := len(s.host)
	if hostLen == 0 {
		hostLen = len("255.255.255.255")
	}
	maxMessageLen := s.lineLen() -
		len(":!@  :\r\n") -
		len(command) -
		len(s.nick) -
		len(s.user) -
		hostLen -
		len(target)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		for _, chunk := range splitChunks(line, maxMessageLen) {
			s.send(NewMessage(command, target, chunk))
		}
	}
}

// PrivMsg sends content to target, split in as many messages as needed.
func (s *Session) PrivMsg(target, content string) {
	s.sendText(CmdPrivmsg, target, content)
}

func (s *Session) Notice(target, content string) {
	s.sendText(CmdNotice, target, content)
}

// HandleLine parses and handles one line. Lines that fail to parse leave
// the session untouched.
func (s *Session) HandleLine(line string) ([]Event, error) {
	msg, err := ParseMessage(line)
	if err != nil {
		return nil, err
	}
	return s.HandleMessage(msg)
}

// HandleMessage updates the session with msg and returns the resulting
// events. An error concerns msg only; the session stays usable.
func (s *Session) HandleMessage(msg Message) ([]Event, error) {
	if s.rawFilter != nil && !s.rawFilter(msg.String()) {
		return nil, nil
	}

	s.events = nil
	s.emit(MessageEvent{Message: msg})

	if msg.Command == CmdBatch {
		s.handleBatch(msg)
	}
	if ref, ok := msg.Batch(); ok {
		if batch, ok := s.batches[ref]; ok {
			s.batches[ref] = append(batch, msg)
		}
	}

	var err error
	if h, ok := handlers[msg.Command]; ok {
		err = h(s, msg)
	}

	if label, ok := msg.Label(); ok && msg.Command != CmdBatch {
		if req := s.takeRequest(labelMatcher(label)); req != nil {
			res := Result{Reply: msg}
			if isErrorReply(msg.Command) {
				res.Err = &RequestError{Reply: msg}
			}
			req.resolve(res)
		}
	}

	events := s.events
	s.events = nil
	return events, err
}

// HandleDisconnect resets the connection state after the transport ended,
// with err nil on a clean close. Channels stay tracked but are left.
func (s *Session) HandleDisconnect(err error) []Event {
	s.registered = false
	for _, c := range s.channels {
		c.Leave()
	}
	s.pendingCaps = nil
	s.enabledCaps = map[string]struct{}{}
	s.batches = map[string][]Message{}

	requests := s.requests
	s.requests = nil
	for _, req := range requests {
		req.resolve(Result{Err: ErrDisconnected})
	}

	return []Event{DisconnectedEvent{Err: err}}
}

func labelMatcher(label string) func(*Request) bool {
	return func(r *Request) bool {
		l, ok := r.Message.Label()
		return ok && l == label
	}
}

// takeRequest removes and returns the oldest pending request matching f.
func (s *Session) takeRequest(f func(*Request) bool) *Request {
	for i, req := range s.requests {
		if f(req) {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			return req
		}
	}
	return nil
}

func (s *Session) bareNickMatcher(nick string) func(*Request) bool {
	return func(r *Request) bool {
		return r.isBareNick() && len(r.Message.Params) > 0 && s.CaseEqual(r.Message.Params[0], nick)
	}
}

func (s *Session) handleBatch(msg Message) {
	ref, ok := msg.Get(0)
	if !ok || len(ref) < 2 {
		return
	}
	switch ref[0] {
	case '+':
		s.batches[ref[1:]] = []Message{msg}
	case '-':
		batch, ok := s.batches[ref[1:]]
		if !ok {
			s.logger.Debug().Str("batch", ref[1:]).Msg("closing unknown batch")
			return
		}
		delete(s.batches, ref[1:])
		batch = append(batch, msg)

		label, ok := batch[0].Label()
		if !ok {
			return
		}
		if req := s.takeRequest(labelMatcher(label)); req != nil {
			req.resolve(Result{Batch: batch})
		}
	}
}

func (s *Session) handleWelcome(msg Message) error {
	var nick string
	if err := msg.ParseParams(&nick); err != nil {
		return err
	}

	s.registered = true
	s.nick = nick
	s.desiredNick = nick
	if req := s.takeRequest(s.bareNickMatcher(nick)); req != nil {
		req.resolve(Result{Reply: msg})
	}

	s.Who(s.nick)
	s.emit(RegisteredEvent{Nick: nick})
	return nil
}

func (s *Session) handleISupport(msg Message) error {
	switch n := len(msg.Params); {
	case n >= 3:
		s.isupport.Parse(strings.Join(msg.Params[1:n-1], " "))
	case n == 2:
		s.isupport.Parse(msg.Params[1])
	default:
		return msg.errNotEnoughParams(2)
	}
	return nil
}

func (s *Session) modeChange(c *Channel, change string) {
	if err := c.ModeChange(change, s.isupport); err != nil {
		s.logger.Debug().Err(err).Str("channel", c.Name).Str("modes", change).Msg("truncated mode change")
	}
}

func (s *Session) handleChannelModeIs(msg Message) error {
	if len(msg.Params) < 3 {
		return msg.errNotEnoughParams(3)
	}
	c := s.Channel(msg.Params[1])
	if c == nil {
		return nil
	}
	c.Modes = map[byte]ModeValue{}
	s.modeChange(c, strings.Join(msg.Params[2:], " "))
	return nil
}

func parseUnixTime(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Unix(sec, 0), nil
}

func (s *Session) handleCreationTime(msg Message) error {
	var channel, created string
	if err := msg.ParseParams(nil, &channel, &created); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	t, err := parseUnixTime(created)
	if err != nil {
		return err
	}
	c.Created = t
	return nil
}

func (s *Session) handleTopicReply(msg Message) error {
	var channel, topic string
	if err := msg.ParseParams(nil, &channel, &topic); err != nil {
		return err
	}
	if c := s.Channel(channel); c != nil {
		c.Topic = topic
	}
	return nil
}

func (s *Session) handleTopicWhoTime(msg Message) error {
	var channel, who string
	if err := msg.ParseParams(nil, &channel, &who); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	var setter Nick
	if strings.Contains(who, "!") && strings.Contains(who, "@") {
		setter = ParseNick(who)
	} else {
		setter = Nick{Name: who}
	}
	c.TopicWho = &setter
	if at, ok := msg.Get(3); ok {
		t, err := parseUnixTime(at)
		if err != nil {
			return err
		}
		c.TopicTime = t
	}
	return nil
}

func (s *Session) handleWhoReply(msg Message) error {
	var user, host, nick string
	if err := msg.ParseParams(nil, nil, &user, &host, nil, &nick); err != nil {
		return err
	}
	if s.IsMe(nick) {
		s.user = user
		s.host = host
	}
	return nil
}

// parseName parses one RPL_NAMREPLY item, with its membership prefixes and
// either a bare nickname or a full mask (userhost-in-names).
func (s *Session) parseName(name string) *Membership {
	m := &Membership{}
	for name != "" {
		mode, ok := s.isupport.PrefixMode(name[0])
		if !ok {
			break
		}
		m.AddPerm(mode)
		name = name[1:]
	}
	if strings.Contains(name, "!") && strings.Contains(name, "@") {
		m.Nick = ParseNick(name)
	} else {
		m.Nick = Nick{Name: name}
	}
	return m
}

func (s *Session) addMember(c *Channel, m *Membership) {
	if existing := c.Member(m.Nick.Name, s.isupport); existing != nil {
		for i := 0; i < len(m.Modes); i++ {
			existing.AddPerm(m.Modes[i])
		}
		return
	}
	if s.IsMe(m.Nick.Name) {
		c.Attached = true
	}
	c.Members = append(c.Members, m)
}

// removeMember reports whether nick was in c. The channel is left when
// nick is ours.
func (s *Session) removeMember(c *Channel, nick string) (*Membership, bool) {
	m := c.Member(nick, s.isupport)
	if m == nil {
		return nil, false
	}
	if s.IsMe(nick) {
		c.Leave()
	} else {
		c.removeMember(m)
	}
	return m, true
}

func (s *Session) handleNamReply(msg Message) error {
	var channel, names string
	if err := msg.ParseParams(nil, nil, &channel, &names); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	for _, name := range strings.Fields(names) {
		m := s.parseName(name)
		if m.Nick.Name == "" {
			continue
		}
		s.addMember(c, m)
	}
	return nil
}

func (s *Session) handleNoNicknameGiven(msg Message) error {
	req := s.takeRequest(func(r *Request) bool {
		return r.isBareNick() && len(r.Message.Params) == 0
	})
	if req != nil {
		req.resolve(Result{Reply: msg, Err: &RequestError{Reply: msg}})
	}
	return nil
}

func (s *Session) handleNickRejected(msg Message) error {
	if nick, ok := msg.Get(1); ok {
		if req := s.takeRequest(s.bareNickMatcher(nick)); req != nil {
			req.resolve(Result{Reply: msg, Err: &RequestError{Reply: msg}})
		}
	}

	if !s.registered {
		s.desiredNick = s.AltNickname()
		s.SendMessage(NewMessage(CmdNick, s.desiredNick))
	}
	return nil
}

func (s *Session) handlePing(msg Message) error {
	s.send(NewMessage(CmdPong, strings.Join(msg.Params, " ")))
	return nil
}

func (s *Session) handleCap(msg Message) error {
	var subcommand string
	if err := msg.ParseParams(nil, &subcommand); err != nil {
		return err
	}
	caps, _ := msg.Get(2)
	more := false
	if caps == "*" && len(msg.Params) > 3 {
		// multiline reply, more lines follow
		more = true
		caps = msg.Params[3]
	}

	switch strings.ToUpper(subcommand) {
	case "LS", "NEW":
		for _, c := range ParseCaps(caps) {
			s.availableCaps[c.Name] = c.Value
			if !s.wantsCap(c.Name) || s.HasCapability(c.Name) {
				continue
			}
			s.send(NewMessage(CmdCap, "REQ", c.Name))
			s.pendingCaps = append(s.pendingCaps, c.Name)
		}
		if more {
			return nil
		}
	case "ACK":
		for _, c := range ParseCaps(caps) {
			s.removePendingCap(c.Name)
			if c.Enable {
				s.enabledCaps[c.Name] = struct{}{}
			} else {
				delete(s.enabledCaps, c.Name)
			}
		}
	case "NAK":
		for _, c := range ParseCaps(caps) {
			s.removePendingCap(c.Name)
		}
	case "DEL":
		for _, c := range ParseCaps(caps) {
			delete(s.availableCaps, c.Name)
			delete(s.enabledCaps, c.Name)
		}
	default:
		return nil
	}

	if !s.registered && len(s.pendingCaps) == 0 {
		s.send(NewMessage(CmdCap, "END"))
	}
	return nil
}

func (s *Session) handleJoin(msg Message) error {
	var channel string
	if err := msg.ParseParams(&channel); err != nil {
		return err
	}
	nick := ParseNick(msg.Prefix)

	c := s.Channel(channel)
	if c == nil {
		if !s.IsMe(nick.Name) {
			return nil
		}
		c = s.TrackChannel(channel, "")
	}
	if s.IsMe(nick.Name) && nick.Host != "" {
		s.user = nick.Ident
		s.host = nick.Host
	}
	s.addMember(c, &Membership{Nick: nick})

	s.emit(JoinEvent{Nick: nick, Channel: c})
	return nil
}

func (s *Session) handlePart(msg Message) error {
	var channel string
	if err := msg.ParseParams(&channel); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	nick := ParseNick(msg.Prefix)
	reason, _ := msg.Get(1)

	s.removeMember(c, nick.Name)
	s.emit(PartEvent{Nick: nick, Channel: c, Reason: reason})
	return nil
}

func (s *Session) handleKick(msg Message) error {
	var channel, kicked string
	if err := msg.ParseParams(&channel, &kicked); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	reason, _ := msg.Get(2)

	target := Nick{Name: kicked}
	if m, ok := s.removeMember(c, kicked); ok {
		target = m.Nick
	}
	s.emit(KickEvent{
		Actor:   ParseNick(msg.Prefix),
		Nick:    target,
		Channel: c,
		Reason:  reason,
	})
	return nil
}

func (s *Session) handleQuit(msg Message) error {
	nick := ParseNick(msg.Prefix)
	reason, _ := msg.Get(0)

	for _, c := range s.channels {
		if _, ok := s.removeMember(c, nick.Name); ok {
			s.emit(QuitEvent{Nick: nick, Channel: c, Reason: reason})
		}
	}
	return nil
}

func (s *Session) handleTopic(msg Message) error {
	var channel string
	if err := msg.ParseParams(&channel); err != nil {
		return err
	}
	c := s.Channel(channel)
	if c == nil {
		return nil
	}
	nick := ParseNick(msg.Prefix)

	c.Topic, _ = msg.Get(1)
	c.TopicWho = &nick
	c.TopicTime = msg.TimeOrNow()

	s.emit(TopicEvent{Nick: nick, Channel: c})
	return nil
}

func (s *Session) handleNick(msg Message) error {
	var newNick string
	if err := msg.ParseParams(&newNick); err != nil {
		return err
	}
	nick := ParseNick(msg.Prefix)

	if s.IsMe(nick.Name) {
		s.nick = newNick
		if !s.registered {
			s.desiredNick = newNick
		}
	}
	for _, c := range s.channels {
		if m := c.Member(nick.Name, s.isupport); m != nil {
			m.Nick.Name = newNick
		}
	}
	if req := s.takeRequest(s.bareNickMatcher(newNick)); req != nil {
		req.resolve(Result{Reply: msg})
	}

	s.emit(NickEvent{Nick: nick, NewNick: newNick})
	return nil
}

func (s *Session) handlePrivmsg(msg Message) error {
	var target, text string
	if err := msg.ParseParams(&target, &text); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	sender := ParseNick(msg.Prefix)

	if s.IsMe(target) {
		s.emit(PrivateMessageEvent{Sender: sender, Text: text})
	} else if c := s.Channel(target); c != nil {
		s.emit(ChannelMessageEvent{Sender: sender, Channel: c, Text: text})
	}
	return nil
}

func (s *Session) handleMode(msg Message) error {
	var subject string
	if err := msg.ParseParams(&subject); err != nil {
		return err
	}
	if !s.IsChannel(subject) {
		return nil
	}
	if c := s.Channel(subject); c != nil {
		s.modeChange(c, strings.Join(msg.Params[1:], " "))
	}
	return nil
}
