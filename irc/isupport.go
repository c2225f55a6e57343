package irc

import (
	"strconv"
	"strings"
)

// ModeClass tells how a channel mode letter consumes its argument.
type ModeClass int

const (
	ModeClassList     ModeClass = iota // always takes an argument, values accumulate (e.g. +b)
	ModeClassArg                       // always takes an argument (e.g. +k)
	ModeClassArgOnSet                  // takes an argument only when set (e.g. +l)
	ModeClassNoArg                     // never takes an argument (e.g. +t)
)

func (c ModeClass) String() string {
	switch c {
	case ModeClassList:
		return "list"
	case ModeClassArg:
		return "arg"
	case ModeClassArgOnSet:
		return "arg_set"
	case ModeClassNoArg:
		return "none"
	}
	return "unknown"
}

const (
	defaultCaseMapping = "rfc1459"
	defaultChanTypes   = "#&"
	defaultChannelLen  = 200
	defaultNickLen     = 9
)

var defaultChanModes = [4]string{"beI", "k", "l", "pstin"}

type isupportToken struct {
	Key      string
	Value    string
	HasValue bool
}

// ISupport holds what the server advertised in RPL_ISUPPORT.
//
// Numeric limits set to 0 mean unlimited.
type ISupport struct {
	CaseMapping   string
	ChanModes     [4]string // list, always-arg, arg-on-set, no-arg
	PrefixModes   string    // e.g. "ov"
	PrefixSymbols string    // e.g. "@+", paired positionally with PrefixModes
	ChanTypes     string
	ChannelLen    int
	NickLen       int
	Modes         int
	TopicLen      int
	KickLen       int

	extra []isupportToken // unknown tokens, in arrival order
}

func NewISupport() *ISupport {
	is := &ISupport{}
	is.reset()
	return is
}

func (is *ISupport) reset() {
	*is = ISupport{
		CaseMapping:   defaultCaseMapping,
		ChanModes:     defaultChanModes,
		PrefixModes:   "ov",
		PrefixSymbols: "@+",
		ChanTypes:     defaultChanTypes,
		ChannelLen:    defaultChannelLen,
		NickLen:       defaultNickLen,
	}
}

// revert restores the default of a known key. It reports false for unknown
// keys.
func (is *ISupport) revert(key string) bool {
	def := NewISupport()
	switch key {
	case "CASEMAPPING":
		is.CaseMapping = def.CaseMapping
	case "CHANMODES":
		is.ChanModes = def.ChanModes
	case "PREFIX":
		is.PrefixModes = def.PrefixModes
		is.PrefixSymbols = def.PrefixSymbols
	case "CHANTYPES":
		is.ChanTypes = def.ChanTypes
	case "CHANNELLEN":
		is.ChannelLen = def.ChannelLen
	case "NICKLEN":
		is.NickLen = def.NickLen
	case "MODES":
		is.Modes = def.Modes
	case "TOPICLEN":
		is.TopicLen = def.TopicLen
	case "KICKLEN":
		is.KickLen = def.KickLen
	default:
		return false
	}
	return true
}

func (is *ISupport) numeric(key string) *int {
	switch key {
	case "CHANNELLEN":
		return &is.ChannelLen
	case "NICKLEN":
		return &is.NickLen
	case "MODES":
		return &is.Modes
	case "TOPICLEN":
		return &is.TopicLen
	case "KICKLEN":
		return &is.KickLen
	}
	return nil
}

// Parse applies a space-separated list of ISUPPORT tokens. Tokens that
// cannot be understood leave the table unchanged.
func (is *ISupport) Parse(tokens string) {
	for _, f := range strings.Fields(tokens) {
		if strings.HasPrefix(f, "-") {
			key, _, _ := strings.Cut(f[1:], "=")
			key = strings.ToUpper(key)
			if !is.revert(key) {
				is.deleteExtra(key)
			}
			continue
		}

		key, value, hasValue := strings.Cut(f, "=")
		key = strings.ToUpper(key)
		if key == "" {
			continue
		}

		if p := is.numeric(key); p != nil {
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				*p = n
			}
			continue
		}

		switch key {
		case "PREFIX":
			is.parsePrefix(value)
		case "CHANMODES":
			is.parseChanModes(value)
		case "CHANTYPES":
			is.ChanTypes = value
		case "CASEMAPPING":
			is.CaseMapping = value
		default:
			is.setExtra(isupportToken{Key: key, Value: value, HasValue: hasValue})
		}
	}
}

func (is *ISupport) parsePrefix(value string) {
	if !strings.HasPrefix(value, "(") {
		return
	}
	modes, symbols, ok := strings.Cut(value[1:], ")")
	if !ok || modes == "" || len(modes) != len(symbols) {
		return
	}
	is.PrefixModes = modes
	is.PrefixSymbols = symbols
}

func (is *ISupport) parseChanModes(value string) {
	groups := strings.Split(value, ",")
	if len(groups) != len(is.ChanModes) {
		return
	}
	copy(is.ChanModes[:], groups)
}

func (is *ISupport) setExtra(tok isupportToken) {
	for i := range is.extra {
		if is.extra[i].Key == tok.Key {
			is.extra[i] = tok
			return
		}
	}
	is.extra = append(is.extra, tok)
}

func (is *ISupport) deleteExtra(key string) {
	for i := range is.extra {
		if is.extra[i].Key == key {
			is.extra = append(is.extra[:i], is.extra[i+1:]...)
			break
		}
	}
	if len(is.extra) == 0 {
		is.extra = nil
	}
}

// Token returns the wire value of any key, known or not. Flags have an
// empty value.
func (is *ISupport) Token(key string) (value string, ok bool) {
	key = strings.ToUpper(key)
	if p := is.numeric(key); p != nil {
		return strconv.Itoa(*p), true
	}
	switch key {
	case "CASEMAPPING":
		return is.CaseMapping, true
	case "CHANMODES":
		return strings.Join(is.ChanModes[:], ","), true
	case "PREFIX":
		return "(" + is.PrefixModes + ")" + is.PrefixSymbols, true
	case "CHANTYPES":
		return is.ChanTypes, true
	}
	for _, tok := range is.extra {
		if tok.Key == key {
			return tok.Value, true
		}
	}
	return "", false
}

// String serializes the table back to ISUPPORT tokens, known keys first.
func (is *ISupport) String() string {
	keys := []string{
		"CASEMAPPING", "CHANMODES", "PREFIX", "CHANNELLEN", "CHANTYPES",
		"MODES", "NICKLEN", "TOPICLEN", "KICKLEN",
	}
	tokens := make([]string, 0, len(keys)+len(is.extra))
	for _, key := range keys {
		value, _ := is.Token(key)
		tokens = append(tokens, key+"="+value)
	}
	for _, tok := range is.extra {
		if tok.HasValue {
			tokens = append(tokens, tok.Key+"="+tok.Value)
		} else {
			tokens = append(tokens, tok.Key)
		}
	}
	return strings.Join(tokens, " ")
}

// ModeClass returns the argument class of a channel mode letter.
func (is *ISupport) ModeClass(mode byte) (ModeClass, bool) {
	for i, group := range is.ChanModes {
		if strings.IndexByte(group, mode) >= 0 {
			return ModeClass(i), true
		}
	}
	return 0, false
}

// IsPrefixMode reports whether mode is a membership mode such as o or v.
func (is *ISupport) IsPrefixMode(mode byte) bool {
	return strings.IndexByte(is.PrefixModes, mode) >= 0
}

// PrefixMode maps a NAMES prefix symbol such as @ to its mode letter.
func (is *ISupport) PrefixMode(symbol byte) (mode byte, ok bool) {
	i := strings.IndexByte(is.PrefixSymbols, symbol)
	if i < 0 {
		return 0, false
	}
	return is.PrefixModes[i], true
}

func (is *ISupport) IsChannel(name string) bool {
	if strings.ContainsAny(name, ", ") {
		return false
	}
	if is.ChannelLen > 0 && len(name) > is.ChannelLen {
		return false
	}
	return name != "" && strings.IndexByte(is.ChanTypes, name[0]) >= 0
}

// CaseMap folds name according to the advertised CASEMAPPING. Unknown
// mappings fold ASCII letters only.
func (is *ISupport) CaseMap(name string) string {
	switch is.CaseMapping {
	case "rfc1459":
		return CasemapRFC1459(name)
	case "rfc1459-strict":
		return CasemapRFC1459Strict(name)
	default:
		return CasemapASCII(name)
	}
}

func (is *ISupport) CaseEqual(a, b string) bool {
	return is.CaseMap(a) == is.CaseMap(b)
}
