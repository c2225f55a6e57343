package irctk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kylef/irctk/irc"
	"github.com/kylef/irctk/metrics"
	"github.com/kylef/irctk/store"
)

var (
	errNotOwner   = errors.New("you are not allowed to do that")
	errNoDatabase = errors.New("no database is configured")
	errNoChannel  = errors.New("this only works in a channel")
)

const (
	defaultLinks = 3
	maxLinks     = 10
)

type command struct {
	OwnerOnly bool
	MinArgs   int
	MaxArgs   int
	Usage     string
	Desc      string
	Handle    func(c *commandContext, args []string) error
}

type commandSet map[string]*command

var commands commandSet

func init() {
	commands = commandSet{
		"HELP": {
			MaxArgs: 1,
			Usage:   "[command]",
			Desc:    "show the list of commands, or how to use the given one",
			Handle:  commandDoHelp,
		},
		"PING": {
			Desc:   "check that the bot is alive",
			Handle: commandDoPing,
		},
		"VERSION": {
			Desc:   "show the version of the bot",
			Handle: commandDoVersion,
		},
		"JOIN": {
			OwnerOnly: true,
			MinArgs:   1,
			MaxArgs:   2,
			Usage:     "<channel> [key]",
			Desc:      "join a channel",
			Handle:    commandDoJoin,
		},
		"PART": {
			OwnerOnly: true,
			MaxArgs:   2,
			Usage:     "[channel] [reason]",
			Desc:      "part a channel",
			Handle:    commandDoPart,
		},
		"TOPIC": {
			MaxArgs: 1,
			Usage:   "[channel]",
			Desc:    "show the topic of a channel",
			Handle:  commandDoTopic,
		},
		"LINKS": {
			MaxArgs: 1,
			Usage:   "[count]",
			Desc:    "show the last links posted in this channel",
			Handle:  commandDoLinks,
		},
		"SEEN": {
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<nick>",
			Desc:    "show when a nick last spoke",
			Handle:  commandDoSeen,
		},
		"QUIT": {
			OwnerOnly: true,
			MaxArgs:   1,
			Usage:     "[reason]",
			Desc:      "disconnect the bot",
			Handle:    commandDoQuit,
		},
	}
}

// commandContext is where a command was said.
type commandContext struct {
	ctx     context.Context
	bot     *Bot
	session *irc.Session
	sender  irc.Nick
	channel *irc.Channel // nil for private messages
}

// reply answers in the channel, addressed to the sender, or in private.
func (c *commandContext) reply(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if c.channel != nil {
		c.session.PrivMsg(c.channel.Name, c.sender.Name+": "+text)
	} else {
		c.session.PrivMsg(c.sender.Name, text)
	}
}

func (c *commandContext) isOwner() bool {
	return c.bot.isOwner(c.session, c.sender)
}

func commandDoHelp(c *commandContext, args []string) error {
	if len(args) == 0 {
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, strings.ToLower(name))
		}
		sort.Strings(names)
		c.reply("commands: %s", strings.Join(names, ", "))
		return nil
	}

	name := strings.ToUpper(args[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("no command matches %q", args[0])
	}
	if cmd.Usage != "" {
		c.reply("%s%s %s: %s", c.bot.cfg.CommandPrefix, strings.ToLower(name), cmd.Usage, cmd.Desc)
	} else {
		c.reply("%s%s: %s", c.bot.cfg.CommandPrefix, strings.ToLower(name), cmd.Desc)
	}
	return nil
}

func commandDoPing(c *commandContext, args []string) error {
	c.reply("pong")
	return nil
}

func commandDoVersion(c *commandContext, args []string) error {
	version, ok := BuildVersion()
	if !ok || version == "" {
		version = "unknown"
	}
	c.reply("irctk %s", version)
	return nil
}

func commandDoJoin(c *commandContext, args []string) error {
	channel := args[0]
	if !c.session.IsChannel(channel) {
		return fmt.Errorf("%q is not a channel", channel)
	}
	key := ""
	if len(args) == 2 {
		key = args[1]
	}
	c.session.Join(channel, key)
	return nil
}

func commandDoPart(c *commandContext, args []string) error {
	channel := ""
	if c.channel != nil {
		channel = c.channel.Name
	}
	reason := ""
	if 0 < len(args) {
		if c.session.IsChannel(args[0]) {
			channel = args[0]
			if 1 < len(args) {
				reason = args[1]
			}
		} else {
			reason = args[0]
		}
	}
	if channel == "" {
		return errNoChannel
	}
	c.session.Part(channel, reason)
	return nil
}

func commandDoTopic(c *commandContext, args []string) error {
	name := ""
	if c.channel != nil {
		name = c.channel.Name
	}
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return errNoChannel
	}

	if ch := c.session.Channel(name); ch != nil && ch.Topic != "" {
		if ch.TopicWho != nil {
			c.reply("%s: %s (set by %s)", ch.Name, ch.Topic, ch.TopicWho.Name)
		} else {
			c.reply("%s: %s", ch.Name, ch.Topic)
		}
		return nil
	}

	st := c.bot.store
	if st == nil {
		c.reply("no topic known for %s", name)
		return nil
	}
	topic, err := st.Topic(c.ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		c.reply("no topic known for %s", name)
		return nil
	} else if err != nil {
		return err
	}
	c.reply("%s: %s (set by %s %s ago)", topic.Channel, topic.Topic, topic.SetBy, since(topic.SetAt))
	return nil
}

func commandDoLinks(c *commandContext, args []string) error {
	if c.channel == nil {
		return errNoChannel
	}
	if c.bot.store == nil {
		return errNoDatabase
	}
	count := defaultLinks
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		count = min(n, maxLinks)
	}

	links, err := c.bot.store.Links(c.ctx, c.channel.Name, count)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		c.reply("no links yet")
		return nil
	}
	for _, link := range links {
		c.reply("%s (from %s, %s ago)", link.URL, link.Nick, since(link.Time))
	}
	return nil
}

func commandDoSeen(c *commandContext, args []string) error {
	nick := args[0]
	if c.session.CaseEqual(nick, c.sender.Name) {
		c.reply("that's you")
		return nil
	}
	e, ok, err := c.bot.seen.lookup(c.ctx, nick)
	if err != nil {
		return err
	}
	if !ok {
		c.reply("I have not seen %s", nick)
		return nil
	}
	c.reply("%s was last seen in %s %s ago, saying: %s", e.Nick, e.Channel, since(e.Time), e.Text)
	return nil
}

func commandDoQuit(c *commandContext, args []string) error {
	reason := ""
	if 0 < len(args) {
		reason = args[0]
	}
	c.bot.quitSession(c.session, reason)
	return nil
}

func since(t time.Time) time.Duration {
	return time.Since(t).Truncate(time.Second)
}

// implemented from https://golang.org/src/strings/strings.go?s=8055:8085#L310
func fieldsN(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" || n == 0 {
		return nil
	}
	if n == 1 {
		return []string{s}
	}
	// Start of the ASCII fast path.
	var a []string
	na := 0
	fieldStart := 0
	i := 0
	// Skip spaces in front of the input.
	for i < len(s) && s[i] == ' ' {
		i++
	}
	fieldStart = i
	for i < len(s) {
		if s[i] != ' ' {
			i++
			continue
		}
		a = append(a, s[fieldStart:i])
		na++
		i++
		// Skip spaces in between fields.
		for i < len(s) && s[i] == ' ' {
			i++
		}
		fieldStart = i
		if na+1 >= n {
			a = append(a, s[fieldStart:])
			return a
		}
	}
	if fieldStart < len(s) {
		// Last field ends at EOF.
		a = append(a, s[fieldStart:])
	}
	return a
}

// runCommand runs the command whose name starts with name.
func runCommand(c *commandContext, name, rawArgs string) error {
	name = strings.ToUpper(name)

	chosenCMDName := name
	if _, ok := commands[name]; !ok {
		chosenCMDName = ""
		for key := range commands {
			if !strings.HasPrefix(key, name) {
				continue
			}
			if chosenCMDName != "" {
				return fmt.Errorf("ambiguous command %q (could mean %v or %v)", strings.ToLower(name), strings.ToLower(chosenCMDName), strings.ToLower(key))
			}
			chosenCMDName = key
		}
	}
	cmd, ok := commands[chosenCMDName]
	if !ok {
		return fmt.Errorf("unknown command %q, try %shelp", strings.ToLower(name), c.bot.cfg.CommandPrefix)
	}

	if cmd.OwnerOnly && !c.isOwner() {
		return errNotOwner
	}

	var args []string
	if rawArgs != "" && cmd.MaxArgs != 0 {
		args = fieldsN(rawArgs, cmd.MaxArgs)
	}
	if len(args) < cmd.MinArgs {
		return fmt.Errorf("usage: %s%s %s", c.bot.cfg.CommandPrefix, strings.ToLower(chosenCMDName), cmd.Usage)
	}

	metrics.Commands.WithLabelValues(strings.ToLower(chosenCMDName)).Inc()
	return cmd.Handle(c, args)
}
