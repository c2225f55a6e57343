package irc

import "strings"

// Nick identifies a user by nickname, ident and host.
//
// Two Nicks are equal when all three fields are byte-equal; comparing
// nicknames the way the server does requires ISupport.CaseEqual.
type Nick struct {
	Name  string
	Ident string
	Host  string
}

// ParseNick parses "nick!ident@host". Anything else is taken as a bare host,
// as servers send their own name in that position.
func ParseNick(s string) Nick {
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return Nick{Host: s}
	}
	bang := strings.LastIndexByte(s[:at], '!')
	if bang < 0 {
		return Nick{Host: s}
	}
	return Nick{
		Name:  s[:bang],
		Ident: s[bang+1 : at],
		Host:  s[at+1:],
	}
}

func (n Nick) String() string {
	return n.Name
}

// Mask returns the "nick!ident@host" form of n.
func (n Nick) Mask() string {
	return n.Name + "!" + n.Ident + "@" + n.Host
}
