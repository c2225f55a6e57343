package irctk

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~emersion/go-scfg"
	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"

	"github.com/kylef/irctk/logger"
)

type FloodConfig struct {
	Burst    int
	Interval time.Duration // zero disables flood control
}

type LogConfig struct {
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Level      zerolog.Level
}

type Config struct {
	Addr      string // host[:port], or the full URL when WebSocket is set
	Nick      string
	Real      string
	User      string
	Password  *string
	TLS       bool
	WebSocket bool
	Channels  []string

	Owners        []string
	CommandPrefix string

	Flood         FloodConfig
	Database      string
	Log           LogConfig
	MetricsListen string

	Debug bool
}

func Defaults() Config {
	return Config{
		TLS:           true,
		CommandPrefix: "!",
		Flood: FloodConfig{
			Burst:    4,
			Interval: 2 * time.Second,
		},
		Log: LogConfig{
			MaxSize:    64,
			MaxBackups: 8,
			MaxAge:     30,
			Level:      zerolog.InfoLevel,
		},
	}
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	cfg = Defaults()

	err = unmarshal(filename, &cfg)
	if err != nil {
		return cfg, err
	}
	if cfg.Addr == "" {
		return cfg, errors.New("address is required")
	}
	if cfg.Nick == "" {
		return cfg, errors.New("nickname is required")
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.Real == "" {
		cfg.Real = cfg.Nick
	}
	if len(cfg.Channels) == 0 {
		cfg.Channels = []string{"#test"}
	}
	if err := cfg.parseAddr(); err != nil {
		return cfg, err
	}
	return
}

func (cfg *Config) parseAddr() error {
	u, err := url.Parse(cfg.Addr)
	if err != nil || u.Scheme == "" {
		return nil
	}
	switch u.Scheme {
	case "ircs":
		cfg.TLS = true
	case "irc+insecure":
		cfg.TLS = false
	case "irc":
		// Could be TLS or plaintext, keep TLS as is.
	case "ws", "wss":
		if u.Host == "" {
			return fmt.Errorf("invalid WebSocket address: %v", cfg.Addr)
		}
		cfg.WebSocket = true
		cfg.TLS = u.Scheme == "wss"
		return nil
	default:
		if u.Host != "" {
			return fmt.Errorf("invalid IRC address scheme: %v", cfg.Addr)
		}
	}
	if u.Host != "" {
		cfg.Addr = u.Host
	}
	return nil
}

func parseBool(d *scfg.Directive, v *bool) error {
	var s string
	if err := d.ParseParams(&s); err != nil {
		return err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("directive %q: %v", d.Name, err)
	}
	*v = b
	return nil
}

func parseInt(d *scfg.Directive, v *int) error {
	var s string
	if err := d.ParseParams(&s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("directive %q: %v", d.Name, err)
	}
	if n < 0 {
		return fmt.Errorf("directive %q: must not be negative", d.Name)
	}
	*v = n
	return nil
}

func unmarshal(filename string, cfg *Config) (err error) {
	directives, err := scfg.Load(filename)
	if err != nil {
		return fmt.Errorf("error parsing scfg: %w", err)
	}

	for _, d := range directives {
		switch d.Name {
		case "address":
			if err := d.ParseParams(&cfg.Addr); err != nil {
				return err
			}
		case "nickname":
			if err := d.ParseParams(&cfg.Nick); err != nil {
				return err
			}
		case "username":
			if err := d.ParseParams(&cfg.User); err != nil {
				return err
			}
		case "realname":
			if err := d.ParseParams(&cfg.Real); err != nil {
				return err
			}
		case "password":
			// a password-cmd or a password-keyring wins over this value
			if directives.Get("password-cmd") != nil || directives.Get("password-keyring") != nil {
				continue
			}

			var password string
			if err := d.ParseParams(&password); err != nil {
				return err
			}
			cfg.Password = &password
		case "password-cmd":
			var cmdName string
			if err := d.ParseParams(&cmdName); err != nil {
				return err
			}

			cmd := exec.Command(cmdName, d.Params[1:]...)
			var stdout []byte
			if stdout, err = cmd.Output(); err != nil {
				return fmt.Errorf("error running password command: %s", err)
			}

			passCmdOut := strings.Split(string(stdout), "\n")
			if len(passCmdOut) >= 1 {
				cfg.Password = &passCmdOut[0]
			}
		case "password-keyring":
			if directives.Get("password-cmd") != nil {
				continue
			}

			var service, user string
			if err := d.ParseParams(&service, &user); err != nil {
				return err
			}
			password, err := keyring.Get(service, user)
			if errors.Is(err, keyring.ErrNotFound) {
				continue
			} else if err != nil {
				return fmt.Errorf("error reading password from keyring: %v", err)
			}
			cfg.Password = &password
		case "channel":
			cfg.Channels = append(cfg.Channels, d.Params...)
		case "owner":
			cfg.Owners = append(cfg.Owners, d.Params...)
		case "command-prefix":
			if err := d.ParseParams(&cfg.CommandPrefix); err != nil {
				return err
			}
		case "tls":
			if err := parseBool(d, &cfg.TLS); err != nil {
				return err
			}
		case "flood":
			for _, child := range d.Children {
				switch child.Name {
				case "burst":
					if err := parseInt(child, &cfg.Flood.Burst); err != nil {
						return err
					}
				case "interval":
					var interval string
					if err := child.ParseParams(&interval); err != nil {
						return err
					}
					if cfg.Flood.Interval, err = time.ParseDuration(interval); err != nil {
						return fmt.Errorf("directive %q: %v", child.Name, err)
					}
				default:
					return fmt.Errorf("unknown directive %q", child.Name)
				}
			}
		case "database":
			if err := d.ParseParams(&cfg.Database); err != nil {
				return err
			}
		case "log":
			for _, child := range d.Children {
				switch child.Name {
				case "file":
					if err := child.ParseParams(&cfg.Log.File); err != nil {
						return err
					}
				case "max-size":
					if err := parseInt(child, &cfg.Log.MaxSize); err != nil {
						return err
					}
				case "max-backups":
					if err := parseInt(child, &cfg.Log.MaxBackups); err != nil {
						return err
					}
				case "max-age":
					if err := parseInt(child, &cfg.Log.MaxAge); err != nil {
						return err
					}
				case "compress":
					if err := parseBool(child, &cfg.Log.Compress); err != nil {
						return err
					}
				case "level":
					var level string
					if err := child.ParseParams(&level); err != nil {
						return err
					}
					if cfg.Log.Level, err = logger.ParseLevel(level); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown directive %q", child.Name)
				}
			}
		case "metrics-listen":
			if err := d.ParseParams(&cfg.MetricsListen); err != nil {
				return err
			}
		case "debug":
			if err := parseBool(d, &cfg.Debug); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown directive %q", d.Name)
		}
	}

	return
}
