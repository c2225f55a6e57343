// Package irctk is an IRC bot built on the irc engine: it keeps a
// connection up, answers commands and logs what it sees in its channels.
package irctk

import (
	"context"
	"errors"
	"net"
	"regexp"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ergochat/irc-go/ircfmt"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"mvdan.cc/xurls/v2"

	"github.com/kylef/irctk/events"
	"github.com/kylef/irctk/irc"
	"github.com/kylef/irctk/metrics"
	"github.com/kylef/irctk/store"
)

var errConnectionLost = errors.New("connection lost")

const storeTimeout = 5 * time.Second

// Capabilities the bot asks for on top of irc.SupportedCapabilities.
var botCapabilities = []string{
	"batch",
	"labeled-response",
	"server-time",
}

type routeFunc func(c *commandContext, m Match) error

type Bot struct {
	cfg    Config
	logger zerolog.Logger
	bus    *events.Bus
	store  *store.Store // nil without a database
	seen   *seenCache
	router Router[routeFunc]
	urls   *regexp.Regexp

	status atomic.Pointer[Status]
	quit   atomic.Bool

	dial func(ctx context.Context, cfg Config) (net.Conn, error)
}

func NewBot(cfg Config, logger zerolog.Logger) (*Bot, error) {
	b := &Bot{
		cfg:    cfg,
		logger: logger,
		bus:    &events.Bus{},
		urls:   xurls.Strict(),
		dial:   dial,
	}
	if cfg.Database != "" {
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		b.store = st
	}
	b.seen = newSeenCache(b.store)

	version, _ := BuildVersion()
	b.status.Store(&Status{Version: version})

	b.router.MustHandle(`^ping$`, routePing, nil)
	b.router.MustHandle(`^quit$`, routeQuit, nil)
	if cfg.CommandPrefix != "" {
		pattern := `^` + regexp.QuoteMeta(cfg.CommandPrefix) + `(?P<command>\S+)(?:\s+(?P<args>.*))?$`
		b.router.MustHandle(pattern, routeCommand, nil)
	}

	b.bus.Subscribe(b)
	return b, nil
}

// Bus lets other components subscribe to the session events.
func (b *Bot) Bus() *events.Bus {
	return b.bus
}

func (b *Bot) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// Run keeps the bot connected until ctx is done or the bot is told to
// quit.
func (b *Bot) Run(ctx context.Context) error {
	const throttleInterval = 6 * time.Second
	const throttleMax = 1 * time.Minute
	var delay time.Duration = 0
	first := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay < throttleMax {
			delay += throttleInterval
		}
		if !first {
			metrics.Reconnects.Inc()
		}
		first = false

		b.logger.Info().Str("address", b.cfg.Addr).Msg("connecting")
		conn, err := b.dial(ctx, b.cfg)
		if err != nil {
			b.logger.Warn().Err(err).Msg("connection failed")
			b.updateStatus(func(st *Status) {
				st.LastError = err.Error()
			})
			continue
		}
		delay = throttleInterval

		b.serve(ctx, conn)
		if b.quit.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		b.logger.Warn().Msg("connection lost")
	}
}

// serve runs one session on conn until the connection ends.
func (b *Bot) serve(ctx context.Context, conn net.Conn) {
	var limiter *rate.Limiter
	if b.cfg.Flood.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(b.cfg.Flood.Interval), b.cfg.Flood.Burst)
	}
	in, out := irc.ChanInOut(conn, irc.ConnParams{
		Limiter: limiter,
		Logger:  b.logger,
	})
	out = b.outputMessages(out)

	params := irc.SessionParams{
		Nickname:     b.cfg.Nick,
		Username:     b.cfg.User,
		RealName:     b.cfg.Real,
		Capabilities: botCapabilities,
		Logger:       b.logger,
		RawFilter:    b.bus.Raw,
	}
	if b.cfg.Password != nil {
		params.Password = *b.cfg.Password
	}
	s := irc.NewSession(out, params)

	metrics.Connected.Set(1)
	b.updateStatus(func(st *Status) {
		st.Connected = true
		st.ConnectedAt = time.Now().UTC()
		st.LastError = ""
	})

	done := ctx.Done()
loop:
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				break loop
			}
			b.handle(s, msg)
		case <-done:
			s.Quit("")
			s.Close()
			done = nil
		}
	}

	var err error
	if !b.quit.Load() && ctx.Err() == nil {
		err = errConnectionLost
	}
	s.Close()
	evs := s.HandleDisconnect(err)
	metrics.ObserveEvents(evs)
	b.bus.Dispatch(s, evs)
}

func (b *Bot) handle(s *irc.Session, msg irc.Message) {
	start := time.Now()
	metrics.LinesReceived.Inc()
	if b.cfg.Debug {
		b.logger.Debug().Str("line", msg.String()).Msg("in")
	}

	evs, err := s.HandleMessage(msg)
	if err != nil {
		b.logger.Warn().Err(err).Str("command", msg.Command).Msg("failed to handle message")
	}
	metrics.ObserveEvents(evs)
	b.bus.Dispatch(s, evs)

	channels := s.Channels()
	metrics.Channels.Set(float64(len(channels)))
	if len(evs) > 1 || s.Nick() != b.Status().Nick {
		names := make([]string, 0, len(channels))
		for _, c := range channels {
			names = append(names, c.Name)
		}
		b.updateStatus(func(st *Status) {
			st.Nick = s.Nick()
			st.Channels = names
		})
	}
	metrics.MessageProcessingTime.Observe(time.Since(start).Seconds())
}

// outputMessages counts outgoing lines and logs them in debug mode.
func (b *Bot) outputMessages(out chan<- irc.Message) chan<- irc.Message {
	wrapped := make(chan irc.Message, cap(out))
	go func() {
		for msg := range wrapped {
			metrics.LinesSent.Inc()
			if b.cfg.Debug {
				b.logger.Debug().Str("line", redact(msg).String()).Msg("out")
			}
			out <- msg
		}
		close(out)
	}()
	return wrapped
}

// redact hides the secrets of a message for logging.
func redact(msg irc.Message) irc.Message {
	const placeholder = "<removed>"
	d := msg
	if msg.Command == irc.CmdPass && len(d.Params) >= 1 {
		d.Params = append([]string{placeholder}, d.Params[1:]...)
	} else if msg.Command == irc.CmdOper && len(d.Params) >= 2 {
		d.Params = append([]string{d.Params[0], placeholder}, d.Params[2:]...)
	} else if msg.Command == irc.CmdAuthenticate && len(d.Params) >= 1 {
		switch d.Params[0] {
		case "*", "PLAIN":
		default:
			d.Params = append([]string{placeholder}, d.Params[1:]...)
		}
	}
	return d
}

func (b *Bot) isOwner(s *irc.Session, n irc.Nick) bool {
	for _, owner := range b.cfg.Owners {
		if strings.Contains(owner, "!") {
			if owner == n.Mask() {
				return true
			}
			continue
		}
		if s.CaseEqual(owner, n.Name) {
			return true
		}
	}
	return false
}

func (b *Bot) quitSession(s *irc.Session, reason string) {
	b.logger.Info().Str("reason", reason).Msg("quitting")
	b.quit.Store(true)
	s.Quit(reason)
	s.Close()
}

func (b *Bot) OnRegistered(s *irc.Session) {
	b.logger.Info().Str("nick", s.Nick()).Msg("registered")
	metrics.Registered.Set(1)
	b.updateStatus(func(st *Status) {
		st.Registered = true
		st.Nick = s.Nick()
	})

	s.ChangeMode(s.Nick(), "+B")
	for _, channel := range b.cfg.Channels {
		s.Join(channel, "")
	}
}

func (b *Bot) OnDisconnected(s *irc.Session, err error) {
	metrics.Connected.Set(0)
	metrics.Registered.Set(0)
	metrics.Channels.Set(0)
	b.updateStatus(func(st *Status) {
		st.Connected = false
		st.Registered = false
		st.Channels = nil
		if err != nil {
			st.LastError = err.Error()
		}
	})
}

func (b *Bot) OnJoin(s *irc.Session, nick irc.Nick, channel *irc.Channel) {
	if s.IsMe(nick.Name) {
		b.logger.Info().Str("channel", channel.Name).Msg("joined")
	}
}

func (b *Bot) OnKick(s *irc.Session, actor, nick irc.Nick, channel *irc.Channel, reason string) {
	if s.IsMe(nick.Name) {
		b.logger.Warn().Str("channel", channel.Name).Str("by", actor.Name).Str("reason", reason).Msg("kicked")
	}
}

func (b *Bot) OnTopic(s *irc.Session, nick irc.Nick, channel *irc.Channel) {
	if b.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := b.store.SetTopic(ctx, store.Topic{
		Channel: channel.Name,
		Topic:   channel.Topic,
		SetBy:   nick.Name,
		SetAt:   channel.TopicTime,
	})
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channel.Name).Msg("failed to save topic")
	}
}

func (b *Bot) OnChannelMessage(s *irc.Session, sender irc.Nick, channel *irc.Channel, text string) {
	text = ircfmt.Strip(text)
	b.record(sender, channel, text)
	b.route(s, sender, channel, text)
}

func (b *Bot) OnPrivateMessage(s *irc.Session, sender irc.Nick, text string) {
	b.route(s, sender, nil, ircfmt.Strip(text))
}

// record remembers a channel message and the links it contains.
func (b *Bot) record(sender irc.Nick, channel *irc.Channel, text string) {
	now := time.Now()
	b.seen.record(seenEntry{
		Nick:    sender.Name,
		Channel: channel.Name,
		Text:    text,
		Time:    now,
	})
	if b.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := b.store.AddMessage(ctx, store.Message{
		Channel: channel.Name,
		Nick:    sender.Name,
		Text:    text,
		Time:    now,
	})
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channel.Name).Msg("failed to save message")
		return
	}

	var links []store.Link
	for _, u := range b.urls.FindAllString(text, -1) {
		links = append(links, store.Link{
			Channel: channel.Name,
			Nick:    sender.Name,
			URL:     u,
			Time:    now,
		})
	}
	if err := b.store.AddLinks(ctx, links); err != nil {
		b.logger.Error().Err(err).Str("channel", channel.Name).Msg("failed to save links")
	}
}

func (b *Bot) route(s *irc.Session, sender irc.Nick, channel *irc.Channel, text string) {
	h, m, ok := b.router.Resolve(strings.TrimSpace(text))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	c := &commandContext{
		ctx:     ctx,
		bot:     b,
		session: s,
		sender:  sender,
		channel: channel,
	}
	if err := h(c, m); err != nil {
		b.logger.Debug().Err(err).Str("nick", sender.Name).Str("text", text).Msg("command failed")
		c.reply("error: %v", err)
	}
}

func routePing(c *commandContext, m Match) error {
	c.reply("pong")
	return nil
}

// routeQuit ignores everyone but the owners.
func routeQuit(c *commandContext, m Match) error {
	if !c.isOwner() {
		return nil
	}
	c.bot.quitSession(c.session, "")
	return nil
}

func routeCommand(c *commandContext, m Match) error {
	return runCommand(c, m.Kwargs["command"], m.Kwargs["args"])
}

func BuildVersion() (string, bool) {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.Main.Version, true
	} else {
		return "", false
	}
}
