package irctk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterResolve(t *testing.T) {
	var r Router[string]
	r.MustHandle(`^ping$`, "ping", nil)
	r.MustHandle(`^say (\w+) (.*)$`, "say", nil)
	r.MustHandle(`^seen (?P<nick>\S+)`, "seen", nil)
	r.MustHandle(`^last (?P<count>\d+)?$`, "last", map[string]string{"channel": "#test"})
	r.MustHandle(`hello`, "hello", nil)
	r.MustHandle(`^hello there$`, "unreachable", nil)

	tests := []struct {
		line    string
		handler string
		args    []string
		kwargs  map[string]string
		ok      bool
	}{
		{line: "ping", handler: "ping", args: []string{}, kwargs: map[string]string{}, ok: true},
		{line: "pingpong"},
		{line: "say #test hi there", handler: "say", args: []string{"#test", "hi there"}, kwargs: map[string]string{}, ok: true},
		{line: "seen kylef now", handler: "seen", kwargs: map[string]string{"nick": "kylef"}, ok: true},
		{line: "last 3", handler: "last", kwargs: map[string]string{"count": "3", "channel": "#test"}, ok: true},
		{line: "last ", handler: "last", kwargs: map[string]string{"count": "", "channel": "#test"}, ok: true},
		{line: "hello there", handler: "hello", args: []string{}, kwargs: map[string]string{}, ok: true},
		{line: "well, hello", handler: "hello", args: []string{}, kwargs: map[string]string{}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			handler, m, ok := r.Resolve(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.handler, handler)
			assert.Equal(t, tt.args, m.Args)
			assert.Equal(t, tt.kwargs, m.Kwargs)
		})
	}
}

func TestRouterDefaultsOverride(t *testing.T) {
	var r Router[int]
	r.MustHandle(`^(?P<target>\S+)$`, 1, map[string]string{"target": "#fixed"})

	_, m, ok := r.Resolve("#given")
	require.True(t, ok)
	assert.Equal(t, "#fixed", m.Kwargs["target"])
}

func TestRouterInvalidPattern(t *testing.T) {
	var r Router[int]
	assert.Error(t, r.Handle(`(`, 1, nil))
	assert.Panics(t, func() { r.MustHandle(`(`, 1, nil) })
}
