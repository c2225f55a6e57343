package irctk

import (
	"fmt"
	"regexp"
)

// Match is what a route captured from a line. Named groups are reported in
// Kwargs, merged with the route defaults; Args holds the unnamed groups
// when the pattern has no named group.
type Match struct {
	Args   []string
	Kwargs map[string]string
}

type route[H any] struct {
	re       *regexp.Regexp
	handler  H
	defaults map[string]string
}

func (r *route[H]) resolve(line string) (Match, bool) {
	sub := r.re.FindStringSubmatch(line)
	if sub == nil {
		return Match{}, false
	}

	m := Match{Kwargs: map[string]string{}}
	for i, name := range r.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		m.Kwargs[name] = sub[i]
	}
	if len(m.Kwargs) == 0 {
		m.Args = sub[1:]
	}
	for k, v := range r.defaults {
		m.Kwargs[k] = v
	}
	return m, true
}

// Router maps lines to handlers with regular expressions. Patterns are
// tried in the order they were added and the first one found anywhere in
// the line wins.
type Router[H any] struct {
	routes []*route[H]
}

// Handle adds a route. Defaults override the groups of the same name.
func (r *Router[H]) Handle(pattern string, handler H, defaults map[string]string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid route %q: %v", pattern, err)
	}
	r.routes = append(r.routes, &route[H]{
		re:       re,
		handler:  handler,
		defaults: defaults,
	})
	return nil
}

func (r *Router[H]) MustHandle(pattern string, handler H, defaults map[string]string) {
	if err := r.Handle(pattern, handler, defaults); err != nil {
		panic(err)
	}
}

func (r *Router[H]) Resolve(line string) (handler H, m Match, ok bool) {
	for _, route := range r.routes {
		if m, ok := route.resolve(line); ok {
			return route.handler, m, true
		}
	}
	return handler, Match{}, false
}
