// Package style supplies colors and the event mask from the user's preference store.
//
// Preferences come from a viper config file, XARROW_* environment variables and
// command-line flags, highest priority last. The value "None" or an empty string
// means the preference is not specified.
package style

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/xarrow/event"
)

const (
	appName = "xarrow"

	DefaultForeground = "Midnight Blue"
	DefaultBackground = "Antique White"

	KeyForeground  = "foreground"
	KeyBackground  = "background"
	KeyTransparent = "transparent"
	KeySound       = "sound"
	KeyLogLevel    = "log.level"
	KeyLogFile     = "log.file"

	FlagForeground   = "fg"
	FlagBackground   = "bg"
	FlagTransparency = "transparency"
	FlagConfig       = "config"
	FlagSound        = "sound"
)

// Palette is the resolved set of drawing colors
type Palette struct {
	Foreground  tcell.Color
	Background  tcell.Color
	Transparent bool
}

// Erase returns the color used to clear the window
// A transparent window erases to the terminal's own background
func (p Palette) Erase() tcell.Color {
	if p.Transparent {
		return tcell.ColorDefault
	}
	return p.Background
}

// Provider resolves style preferences
type Provider struct {
	v   *viper.Viper
	log zerolog.Logger

	mu      sync.Mutex
	palette Palette
}

// RegisterFlags adds the command-line overrides to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagForeground, "", "foreground color (name or #rrggbb)")
	fs.String(FlagBackground, "", "background color (name or #rrggbb)")
	fs.String(FlagTransparency, "", "erase to the terminal background (on/true/yes/1)")
	fs.String(FlagConfig, "", "preference file (default $XDG_CONFIG_HOME/xarrow/config.yaml)")
	fs.Bool(FlagSound, false, "play pointer crossing and close cues")
}

// New loads preferences; fs may be nil when no command line is involved
func New(fs *pflag.FlagSet, log zerolog.Logger) (*Provider, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySound, false)

	explicit := ""
	if fs != nil {
		bindings := map[string]string{
			KeyForeground:  FlagForeground,
			KeyBackground:  FlagBackground,
			KeyTransparent: FlagTransparency,
			KeySound:       FlagSound,
		}
		for key, name := range bindings {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup(FlagConfig); f != nil {
			explicit = f.Value.String()
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || explicit != "" {
			return nil, fmt.Errorf("read preferences: %w", err)
		}
		log.Debug().Msg("no preference file, using defaults")
	}

	p := &Provider{v: v, log: log}
	p.palette = p.resolve()
	return p, nil
}

// configDir returns $XDG_CONFIG_HOME/xarrow
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// Palette returns the current colors
func (p *Provider) Palette() Palette {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.palette
}

// EventMask returns the event kinds the window selects
func (p *Provider) EventMask() event.Mask {
	return event.MaskAll
}

// Sound reports whether audio cues are enabled
func (p *Provider) Sound() bool {
	return Truthy(p.v.GetString(KeySound))
}

// LogLevel returns the configured log level name
func (p *Provider) LogLevel() string {
	return p.v.GetString(KeyLogLevel)
}

// LogFile returns the configured log file path, empty for the default
func (p *Provider) LogFile() string {
	return p.v.GetString(KeyLogFile)
}

// ConfigFile returns the preference file in use, empty when none was found
func (p *Provider) ConfigFile() string {
	return p.v.ConfigFileUsed()
}

// SetLogger replaces the logger; call before Watch
func (p *Provider) SetLogger(log zerolog.Logger) {
	p.log = log
}

// Watch calls onChange after the preference file changes and the palette is re-resolved
// onChange runs on the watcher goroutine
func (p *Provider) Watch(onChange func()) bool {
	if p.v.ConfigFileUsed() == "" {
		return false
	}
	p.v.OnConfigChange(func(e fsnotify.Event) {
		palette := p.resolve()
		p.mu.Lock()
		p.palette = palette
		p.mu.Unlock()
		p.log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("preferences reloaded")
		if onChange != nil {
			onChange()
		}
	})
	p.v.WatchConfig()
	return true
}

// resolve reads the colors from the store, falling back to defaults
func (p *Provider) resolve() Palette {
	var palette Palette

	palette.Transparent = Specified(p.v.GetString(KeyTransparent)) && Truthy(p.v.GetString(KeyTransparent))
	palette.Background = p.color(KeyBackground, DefaultBackground)
	palette.Foreground = p.color(KeyForeground, DefaultForeground)

	p.log.Debug().
		Str("foreground", p.v.GetString(KeyForeground)).
		Str("background", p.v.GetString(KeyBackground)).
		Bool("transparent", palette.Transparent).
		Msg("style resolved")

	return palette
}

func (p *Provider) color(key, fallback string) tcell.Color {
	value := p.v.GetString(key)
	if !Specified(value) {
		value = fallback
	}
	c, err := ParseColor(value)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("using default color")
		c, _ = ParseColor(fallback)
	}
	return c
}

// Specified reports whether a preference value was given
func Specified(value string) bool {
	return value != "" && value != "None"
}

// Truthy reports whether value is one of on/true/yes/1, case-insensitive
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}

// ParseColor accepts color names ("Midnight Blue", "midnightblue") and #rgb/#rrggbb
func ParseColor(value string) (tcell.Color, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		c, err := colorful.Hex(expandHex(value))
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("color %q: %w", value, err)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
	}

	name := strings.ToLower(strings.ReplaceAll(value, " ", ""))
	if c, ok := tcell.ColorNames[name]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("color %q: unknown name", value)
}

// expandHex turns #rgb into #rrggbb
func expandHex(value string) string {
	if len(value) != 4 {
		return value
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, ch := range value[1:] {
		b.WriteRune(ch)
		b.WriteRune(ch)
	}
	return b.String()
}
