package irc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedMessage is wrapped by every error returned by ParseMessage.
var ErrMalformedMessage = errors.New("malformed message")

var (
	errEmptyMessage      = fmt.Errorf("%w: empty message", ErrMalformedMessage)
	errIncompleteMessage = fmt.Errorf("%w: message is incomplete", ErrMalformedMessage)
	errUnterminatedTags  = fmt.Errorf("%w: unterminated tag block", ErrMalformedMessage)
)

var errMissingParams = errors.New("not enough params")

func word(s string) (w, rest string) {
	w, rest, _ = strings.Cut(s, " ")
	return
}

func tagEscape(c byte) (escape byte, ok bool) {
	switch c {
	case ':':
		return ';', true
	case 's':
		return ' ', true
	case '\\':
		return '\\', true
	case 'r':
		return '\r', true
	case 'n':
		return '\n', true
	}
	return c, false
}

// unescapeTagValue reverses escapeTagValue. Unknown escape sequences, and a
// backslash at the very end of the value, are kept as is.
func unescapeTagValue(escaped string) string {
	if !strings.ContainsRune(escaped, '\\') {
		return escaped
	}
	var sb strings.Builder
	sb.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '\\' || i+1 == len(escaped) {
			sb.WriteByte(c)
			continue
		}
		if e, ok := tagEscape(escaped[i+1]); ok {
			sb.WriteByte(e)
		} else {
			sb.WriteByte('\\')
			sb.WriteByte(escaped[i+1])
		}
		i++
	}
	return sb.String()
}

func escapeTagValue(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case ';':
			sb.WriteString(`\:`)
		case ' ':
			sb.WriteString(`\s`)
		case '\\':
			sb.WriteString(`\\`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Tag is an IRCv3 message tag.
type Tag struct {
	ClientOnly bool   // the tag name was prefixed with "+"
	Vendor     string // e.g. "draft" in "draft/reply", or ""
	Name       string
	Value      string // unescaped value, "" when the tag has no value
}

// ParseTag parses a single raw tag as found between semicolons of a tag
// block.
func ParseTag(raw string) (tag Tag) {
	if strings.HasPrefix(raw, "+") {
		tag.ClientOnly = true
		raw = raw[1:]
	}
	key, value, _ := strings.Cut(raw, "=")
	if vendor, name, ok := strings.Cut(key, "/"); ok {
		tag.Vendor = vendor
		tag.Name = name
	} else {
		tag.Name = key
	}
	tag.Value = unescapeTagValue(value)
	return
}

// Key returns the full tag key, including the client-only marker and the
// vendor namespace.
func (tag Tag) Key() string {
	var sb strings.Builder
	if tag.ClientOnly {
		sb.WriteByte('+')
	}
	if tag.Vendor != "" {
		sb.WriteString(tag.Vendor)
		sb.WriteByte('/')
	}
	sb.WriteString(tag.Name)
	return sb.String()
}

func (tag Tag) String() string {
	if tag.Value == "" {
		return tag.Key()
	}
	return tag.Key() + "=" + escapeTagValue(tag.Value)
}

func parseTags(s string) (tags []Tag) {
	for _, item := range strings.Split(s, ";") {
		if item == "" || item == "=" || item == "+" || item == "+=" {
			continue
		}
		tags = append(tags, ParseTag(item))
	}
	return
}

// Message is a single IRC line.
type Message struct {
	Tags    []Tag
	Prefix  string // raw "nick!ident@host" or server name, without the colon
	Command string
	Params  []string

	// ForceTrailing makes String prefix the last parameter with a colon even
	// when it is not needed.
	ForceTrailing bool
}

func NewMessage(command string, params ...string) Message {
	return Message{Command: command, Params: params}
}

// ParseMessage parses a line with its CRLF already stripped.
func ParseMessage(line string) (msg Message, err error) {
	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errEmptyMessage
		return
	}

	if line[0] == '@' {
		var tags string
		var ok bool

		tags, line, ok = strings.Cut(line[1:], " ")
		if !ok {
			err = errUnterminatedTags
			return
		}
		msg.Tags = parseTags(tags)
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	if line[0] == ':' {
		var prefix string

		prefix, line = word(line)
		msg.Prefix = prefix[1:]
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	msg.Command, line = word(line)
	msg.Command = strings.ToUpper(msg.Command)

	for line != "" {
		if line[0] == ':' {
			trailing := line[1:]
			msg.Params = append(msg.Params, trailing)
			msg.ForceTrailing = !needsColon(trailing)
			break
		}

		var param string
		param, line = word(line)
		if param == "" {
			// consecutive spaces
			continue
		}
		msg.Params = append(msg.Params, param)
	}

	return
}

func needsColon(param string) bool {
	return param == "" || param[0] == ':' || strings.ContainsRune(param, ' ')
}

func (msg Message) String() string {
	var sb strings.Builder

	if len(msg.Tags) > 0 {
		sb.WriteByte('@')
		for i, tag := range msg.Tags {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(tag.String())
		}
		sb.WriteByte(' ')
	}

	if msg.Prefix != "" {
		sb.WriteByte(':')
		sb.WriteString(msg.Prefix)
		sb.WriteByte(' ')
	}

	sb.WriteString(msg.Command)

	for i, p := range msg.Params {
		sb.WriteByte(' ')
		if i == len(msg.Params)-1 && (msg.ForceTrailing || needsColon(p)) {
			sb.WriteByte(':')
		}
		sb.WriteString(p)
	}

	return sb.String()
}

// Get returns the i-th parameter, if present.
func (msg Message) Get(i int) (string, bool) {
	if i < 0 || len(msg.Params) <= i {
		return "", false
	}
	return msg.Params[i], true
}

// ParseParams copies the first len(out) parameters into out, skipping nil
// pointers.
func (msg Message) ParseParams(out ...*string) error {
	if len(msg.Params) < len(out) {
		return msg.errNotEnoughParams(len(out))
	}
	for i := range out {
		if out[i] != nil {
			*out[i] = msg.Params[i]
		}
	}
	return nil
}

func (msg Message) errNotEnoughParams(expected int) error {
	return fmt.Errorf("%s: %w: expected %d, got %d", msg.Command, errMissingParams, expected, len(msg.Params))
}

// FindTag looks up a tag by exact name, vendor and client-only flag.
func (msg Message) FindTag(name, vendor string, clientOnly bool) (string, bool) {
	for _, tag := range msg.Tags {
		if tag.Name == name && tag.Vendor == vendor && tag.ClientOnly == clientOnly {
			return tag.Value, true
		}
	}
	return "", false
}

func (msg Message) Label() (string, bool) {
	return msg.FindTag("label", "", false)
}

func (msg Message) Batch() (string, bool) {
	return msg.FindTag("batch", "", false)
}

func (msg Message) Account() (string, bool) {
	return msg.FindTag("account", "", false)
}

// WithTag returns a copy of msg with the given tag set, replacing any tag
// with the same key.
func (msg Message) WithTag(key, value string) Message {
	tag := ParseTag(key)
	tag.Value = value
	tags := make([]Tag, 0, len(msg.Tags)+1)
	for _, t := range msg.Tags {
		if t.Key() != tag.Key() {
			tags = append(tags, t)
		}
	}
	msg.Tags = append(tags, tag)
	return msg
}

// Time returns the server-time of the message, if any.
func (msg Message) Time() (time.Time, bool) {
	v, ok := msg.FindTag("time", "", false)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.Local(), true
}

func (msg Message) TimeOrNow() time.Time {
	if t, ok := msg.Time(); ok {
		return t
	}
	return time.Now()
}

// Cap is one item of a CAP list.
type Cap struct {
	Name   string
	Value  string
	Enable bool
}

func ParseCaps(caps string) (diff []Cap) {
	for _, c := range strings.Split(caps, " ") {
		if c == "" || c == "-" || c == "=" || c == "-=" {
			continue
		}

		var item Cap

		if strings.HasPrefix(c, "-") {
			item.Enable = false
			c = c[1:]
		} else {
			item.Enable = true
		}

		kv := strings.SplitN(c, "=", 2)
		item.Name = strings.ToLower(kv[0])
		if len(kv) > 1 {
			item.Value = kv[1]
		}

		diff = append(diff, item)
	}

	return
}

func casemap(name string, fold func(r rune) rune) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		} else if fold != nil {
			r = fold(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func CasemapASCII(name string) string {
	return casemap(name, nil)
}

func CasemapRFC1459(name string) string {
	return casemap(name, func(r rune) rune {
		switch r {
		case '[':
			return '{'
		case ']':
			return '}'
		case '\\':
			return '|'
		}
		return r
	})
}

func CasemapRFC1459Strict(name string) string {
	return casemap(name, func(r rune) rune {
		switch r {
		case '[':
			return '{'
		case ']':
			return '}'
		case '\\':
			return '|'
		case '^':
			return '~'
		}
		return r
	})
}
