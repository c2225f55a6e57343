package irc

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingModeArg is returned by Channel.ModeChange when a mode change
// lacks its argument. Changes before the missing argument are kept.
var ErrMissingModeArg = errors.New("missing mode argument")

// ModeValue is the state of one channel mode: ModeFlag, ModeArg or ModeList.
type ModeValue interface {
	isModeValue()
}

// ModeFlag is the value of a set mode that takes no argument.
type ModeFlag struct{}

// ModeArg is the value of a mode that takes a single argument.
type ModeArg string

// ModeList is the value of a list mode such as bans.
type ModeList []string

func (ModeFlag) isModeValue() {}
func (ModeArg) isModeValue()  {}
func (ModeList) isModeValue() {}

// Membership is the presence of a nick in a channel, with its membership
// modes (e.g. "ov") in the order they were granted.
type Membership struct {
	Nick  Nick
	Modes string
}

func (m *Membership) HasPerm(mode byte) bool {
	return strings.IndexByte(m.Modes, mode) >= 0
}

func (m *Membership) AddPerm(mode byte) {
	if !m.HasPerm(mode) {
		m.Modes += string(mode)
	}
}

func (m *Membership) RemovePerm(mode byte) {
	if i := strings.IndexByte(m.Modes, mode); i >= 0 {
		m.Modes = m.Modes[:i] + m.Modes[i+1:]
	}
}

// Channel is the known state of a channel.
type Channel struct {
	Name     string
	Attached bool // whether we are in the channel
	Key      string
	Modes    map[byte]ModeValue

	Created   time.Time
	Topic     string
	TopicWho  *Nick
	TopicTime time.Time

	Members []*Membership // in join/NAMES order
}

func NewChannel(name string) *Channel {
	return &Channel{
		Name:  name,
		Modes: map[byte]ModeValue{},
	}
}

func (c *Channel) String() string {
	return c.Name
}

// Member returns the membership of nick, compared with the server case
// mapping.
func (c *Channel) Member(nick string, is *ISupport) *Membership {
	for _, m := range c.Members {
		if is.CaseEqual(m.Nick.Name, nick) {
			return m
		}
	}
	return nil
}

func (c *Channel) removeMember(m *Membership) {
	for i := range c.Members {
		if c.Members[i] == m {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return
		}
	}
}

// Leave forgets the members of the channel after we left it. The rest of
// the state is kept.
func (c *Channel) Leave() {
	c.Attached = false
	c.Members = nil
}

// ModeChange applies a mode string such as "+o-b nick mask". Unknown
// letters are skipped without consuming an argument.
func (c *Channel) ModeChange(change string, is *ISupport) error {
	args := strings.Fields(change)
	if len(args) == 0 {
		return nil
	}
	modes := args[0]
	args = args[1:]
	if c.Modes == nil {
		c.Modes = map[byte]ModeValue{}
	}

	nextArg := func() (string, bool) {
		if len(args) == 0 {
			return "", false
		}
		arg := args[0]
		args = args[1:]
		return arg, true
	}

	add := true
	for i := 0; i < len(modes); i++ {
		mode := modes[i]
		switch mode {
		case '+':
			add = true
			continue
		case '-':
			add = false
			continue
		}

		if is.IsPrefixMode(mode) {
			nick, ok := nextArg()
			if !ok {
				return ErrMissingModeArg
			}
			if m := c.Member(nick, is); m != nil {
				if add {
					m.AddPerm(mode)
				} else {
					m.RemovePerm(mode)
				}
			}
			continue
		}

		class, ok := is.ModeClass(mode)
		if !ok {
			continue
		}
		switch class {
		case ModeClassList:
			arg, ok := nextArg()
			if !ok {
				return ErrMissingModeArg
			}
			list, _ := c.Modes[mode].(ModeList)
			if add {
				c.Modes[mode] = append(list, arg)
				break
			}
			for j := range list {
				if list[j] == arg {
					list = append(list[:j:j], list[j+1:]...)
					break
				}
			}
			if len(list) == 0 {
				delete(c.Modes, mode)
			} else {
				c.Modes[mode] = list
			}
		case ModeClassArg:
			arg, ok := nextArg()
			if !ok {
				return ErrMissingModeArg
			}
			if add {
				c.Modes[mode] = ModeArg(arg)
			} else if v, ok := c.Modes[mode].(ModeArg); ok && string(v) == arg {
				delete(c.Modes, mode)
			}
		case ModeClassArgOnSet:
			if !add {
				delete(c.Modes, mode)
				break
			}
			arg, ok := nextArg()
			if !ok {
				return ErrMissingModeArg
			}
			c.Modes[mode] = ModeArg(arg)
		case ModeClassNoArg:
			if add {
				c.Modes[mode] = ModeFlag{}
			} else {
				delete(c.Modes, mode)
			}
		}
	}
	return nil
}
