package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelString(t *testing.T) {
	c := NewChannel("#testing")
	assert.Equal(t, "#testing", c.String())
	assert.Empty(t, c.Members)
}

func TestChannelMemberModes(t *testing.T) {
	is := NewISupport()
	c := NewChannel("#testing")
	kyle := &Membership{Nick: Nick{Name: "kyle"}}
	doe := &Membership{Nick: Nick{Name: "doe"}, Modes: "ov"}
	c.Members = append(c.Members, kyle, doe)

	require.NoError(t, c.ModeChange("+o KYLE", is))
	assert.True(t, kyle.HasPerm('o'))

	require.NoError(t, c.ModeChange("-o doe", is))
	assert.False(t, doe.HasPerm('o'))
	assert.True(t, doe.HasPerm('v'))

	require.NoError(t, c.ModeChange("+v ghost", is))
	assert.Empty(t, c.Modes)
}

func TestChannelModeChange(t *testing.T) {
	tests := []struct {
		name     string
		changes  []string
		expected map[byte]ModeValue
	}{
		{
			name:     "list modes accumulate",
			changes:  []string{"+b cake", "+b snake", "-b cake"},
			expected: map[byte]ModeValue{'b': ModeList{"snake"}},
		},
		{
			name:     "emptied list is removed",
			changes:  []string{"+b cake", "-b cake"},
			expected: map[byte]ModeValue{},
		},
		{
			name:     "single arg overwrites",
			changes:  []string{"+l 5", "+l 6"},
			expected: map[byte]ModeValue{'l': ModeArg("6")},
		},
		{
			name:     "arg unset requires matching value",
			changes:  []string{"+k sekret", "-k other"},
			expected: map[byte]ModeValue{'k': ModeArg("sekret")},
		},
		{
			name:     "arg unset",
			changes:  []string{"+k sekret", "-k sekret"},
			expected: map[byte]ModeValue{},
		},
		{
			name:     "arg on set unset without argument",
			changes:  []string{"+l 5", "-l"},
			expected: map[byte]ModeValue{},
		},
		{
			name:     "flags",
			changes:  []string{"+tn", "-tn"},
			expected: map[byte]ModeValue{},
		},
		{
			name:     "mixed",
			changes:  []string{"+tnk-t+l sekret 10"},
			expected: map[byte]ModeValue{'n': ModeFlag{}, 'k': ModeArg("sekret"), 'l': ModeArg("10")},
		},
		{
			name:     "unknown letters consume nothing",
			changes:  []string{"+Zk sekret"},
			expected: map[byte]ModeValue{'k': ModeArg("sekret")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := NewISupport()
			c := NewChannel("#test")
			for _, change := range tt.changes {
				require.NoError(t, c.ModeChange(change, is))
			}
			assert.Equal(t, tt.expected, c.Modes)
		})
	}
}

func TestChannelModeChangeMissingArg(t *testing.T) {
	is := NewISupport()
	c := NewChannel("#test")

	err := c.ModeChange("+tk", is)
	assert.ErrorIs(t, err, ErrMissingModeArg)
	assert.Equal(t, map[byte]ModeValue{'t': ModeFlag{}}, c.Modes)

	err = c.ModeChange("+o", is)
	assert.ErrorIs(t, err, ErrMissingModeArg)
}

func TestChannelLeave(t *testing.T) {
	c := NewChannel("#test")
	c.Attached = true
	c.Topic = "hi"
	c.Members = append(c.Members, &Membership{Nick: Nick{Name: "kyle"}})

	c.Leave()
	assert.False(t, c.Attached)
	assert.Empty(t, c.Members)
	assert.Equal(t, "hi", c.Topic)
}

func TestMembershipPerms(t *testing.T) {
	m := &Membership{}
	m.AddPerm('o')
	m.AddPerm('v')
	m.AddPerm('o')
	assert.Equal(t, "ov", m.Modes)

	m.RemovePerm('o')
	assert.Equal(t, "v", m.Modes)
	m.RemovePerm('h')
	assert.Equal(t, "v", m.Modes)
}
