package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Message
	}{
		{
			name:     "command only",
			line:     "PING",
			expected: Message{Command: "PING"},
		},
		{
			name:     "lowercase command",
			line:     "ping",
			expected: Message{Command: "PING"},
		},
		{
			name: "prefix and params",
			line: ":kyle!kyle@kylefuller.co.uk PRIVMSG #test :Hello World",
			expected: Message{
				Prefix:  "kyle!kyle@kylefuller.co.uk",
				Command: "PRIVMSG",
				Params:  []string{"#test", "Hello World"},
			},
		},
		{
			name: "middle params",
			line: "USER kyle 0 * realname",
			expected: Message{
				Command: "USER",
				Params:  []string{"kyle", "0", "*", "realname"},
			},
		},
		{
			name: "unneeded colon",
			line: "PRIVMSG #test :hi",
			expected: Message{
				Command:       "PRIVMSG",
				Params:        []string{"#test", "hi"},
				ForceTrailing: true,
			},
		},
		{
			name: "empty trailing",
			line: "TOPIC #test :",
			expected: Message{
				Command: "TOPIC",
				Params:  []string{"#test", ""},
			},
		},
		{
			name: "tags",
			line: "@time=2011-10-19T16:40:51.620Z;+draft/reply=abc;account PRIVMSG #test hi",
			expected: Message{
				Tags: []Tag{
					{Name: "time", Value: "2011-10-19T16:40:51.620Z"},
					{ClientOnly: true, Vendor: "draft", Name: "reply", Value: "abc"},
					{Name: "account"},
				},
				Command: "PRIVMSG",
				Params:  []string{"#test", "hi"},
			},
		},
		{
			name: "escaped tag value",
			line: `@note=a\sb\:c\\d\r\n PING`,
			expected: Message{
				Tags:    []Tag{{Name: "note", Value: "a b;c\\d\r\n"}},
				Command: "PING",
			},
		},
		{
			name: "double spaces",
			line: "MODE  #test  +o  kyle",
			expected: Message{
				Command: "MODE",
				Params:  []string{"#test", "+o", "kyle"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, msg)
		})
	}
}

func TestParseMessageMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"@tag=value",
		":prefix",
		"@tag=value :prefix",
	} {
		_, err := ParseMessage(line)
		assert.ErrorIs(t, err, ErrMalformedMessage, "line %q", line)
	}
}

func TestMessageString(t *testing.T) {
	tests := []struct {
		msg      Message
		expected string
	}{
		{NewMessage("PING"), "PING"},
		{NewMessage("JOIN", "#test"), "JOIN #test"},
		{NewMessage("PRIVMSG", "#test", "Hello World"), "PRIVMSG #test :Hello World"},
		{NewMessage("TOPIC", "#test", ""), "TOPIC #test :"},
		{NewMessage("PRIVMSG", "#test", ":)"), "PRIVMSG #test ::)"},
		{Message{Command: "USER", Params: []string{"kyle", "0", "*", "Kyle"}, ForceTrailing: true}, "USER kyle 0 * :Kyle"},
		{Message{Prefix: "irc.example.com", Command: "001", Params: []string{"kyle", "Welcome"}}, ":irc.example.com 001 kyle Welcome"},
		{NewMessage("TAGMSG", "#test").WithTag("+typing", "active"), "@+typing=active TAGMSG #test"},
		{NewMessage("PING").WithTag("note", "a b;c"), `@note=a\sb\:c PING`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.msg.String())
	}
}

func TestMessageRoundTrip(t *testing.T) {
	for _, line := range []string{
		"PING",
		":server 001 kyle :Welcome to the network",
		":server 005 kyle CHANTYPES=# NICKLEN=30 :are supported by this server",
		"@label=xx;batch=ref :nick!ident@host PRIVMSG #test :hi",
		"@+example.com/foo=bar\\sbaz TAGMSG #test",
		"TOPIC #test :",
		"PRIVMSG #test ::-)",
		"USER kyle 0 * :kyle",
	} {
		msg, err := ParseMessage(line)
		require.NoError(t, err)
		assert.Equal(t, line, msg.String())

		again, err := ParseMessage(msg.String())
		require.NoError(t, err)
		assert.Equal(t, msg, again)
	}
}

func TestTagEscapeRoundTrip(t *testing.T) {
	for _, value := range []string{
		";",
		" ",
		"\\",
		"\r\n",
		"; \\\r\n",
		"\\s",
		"plain",
	} {
		assert.Equal(t, value, unescapeTagValue(escapeTagValue(value)))
	}
}

func TestUnescapeTagValueLenient(t *testing.T) {
	assert.Equal(t, `a\b`, unescapeTagValue(`a\b`))
	assert.Equal(t, `a\`, unescapeTagValue(`a\`))
}

func TestMessageGet(t *testing.T) {
	msg := NewMessage("PRIVMSG", "#test", "hi")

	p, ok := msg.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "hi", p)

	_, ok = msg.Get(2)
	assert.False(t, ok)
	_, ok = msg.Get(-1)
	assert.False(t, ok)
}

func TestMessageParseParams(t *testing.T) {
	msg := NewMessage("KICK", "#test", "bob")

	var channel, nick string
	require.NoError(t, msg.ParseParams(&channel, &nick))
	assert.Equal(t, "#test", channel)
	assert.Equal(t, "bob", nick)

	err := msg.ParseParams(nil, nil, &nick)
	assert.ErrorIs(t, err, errMissingParams)
}

func TestMessageFindTag(t *testing.T) {
	msg, err := ParseMessage("@label=xx;+draft/reply=1;example.com/x=y;account=kyle PING")
	require.NoError(t, err)

	label, ok := msg.Label()
	assert.True(t, ok)
	assert.Equal(t, "xx", label)

	account, ok := msg.Account()
	assert.True(t, ok)
	assert.Equal(t, "kyle", account)

	_, ok = msg.Batch()
	assert.False(t, ok)

	v, ok := msg.FindTag("reply", "draft", true)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = msg.FindTag("reply", "draft", false)
	assert.False(t, ok)
	_, ok = msg.FindTag("reply", "", true)
	assert.False(t, ok)

	v, ok = msg.FindTag("x", "example.com", false)
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestMessageWithTagReplaces(t *testing.T) {
	msg := NewMessage("PING").WithTag("label", "1").WithTag("label", "2")
	require.Len(t, msg.Tags, 1)
	label, _ := msg.Label()
	assert.Equal(t, "2", label)
}

func TestMessageTime(t *testing.T) {
	msg, err := ParseMessage("@time=2011-10-19T16:40:51.620Z PING")
	require.NoError(t, err)

	ts, ok := msg.Time()
	require.True(t, ok)
	assert.Equal(t, 2011, ts.UTC().Year())
	assert.Equal(t, 620000000, ts.Nanosecond())

	_, ok = NewMessage("PING").Time()
	assert.False(t, ok)
}

func TestParseCaps(t *testing.T) {
	caps := ParseCaps("multi-prefix sasl=PLAIN,EXTERNAL -account-tag")
	assert.Equal(t, []Cap{
		{Name: "multi-prefix", Enable: true},
		{Name: "sasl", Value: "PLAIN,EXTERNAL", Enable: true},
		{Name: "account-tag", Enable: false},
	}, caps)
}

func TestCasemap(t *testing.T) {
	assert.Equal(t, "foo{bar}|^", CasemapRFC1459("FOO[BAR]\\^"))
	assert.Equal(t, "foo{bar}|~", CasemapRFC1459Strict("FOO[BAR]\\^"))
	assert.Equal(t, "foo[bar]\\^", CasemapASCII("FOO[BAR]\\^"))
}
