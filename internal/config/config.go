// Package config holds the widget and collaborator settings shared by every
// command. Values come from flags, SLACKFEEDBACK_* environment variables and
// the YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

// Config is embedded into the CLI as global flags.
type Config struct {
	Channel         string            `help:"Slack channel to post to." default:"${channel}" env:"SLACKFEEDBACK_CHANNEL"`
	User            string            `help:"Author name shown on the message." default:"${user}" env:"SLACKFEEDBACK_USER"`
	Emoji           string            `help:"Icon emoji for the message." default:"${emoji}" env:"SLACKFEEDBACK_EMOJI"`
	Disabled        bool              `help:"Hide the widget and ignore all interaction." env:"SLACKFEEDBACK_DISABLED"`
	ButtonText      string            `help:"Trigger button label." default:"${button_text}" env:"SLACKFEEDBACK_BUTTON_TEXT"`
	ImageUploadText string            `help:"Image attach label." default:"${image_upload_text}" env:"SLACKFEEDBACK_IMAGE_UPLOAD_TEXT"`
	SiteKey         string            `help:"Verification challenge site key." default:"${site_key}" env:"SLACKFEEDBACK_SITE_KEY"`
	TriggerStyle    map[string]string `help:"Trigger button style overrides (foreground, background, border, width, bold)." env:"SLACKFEEDBACK_TRIGGER_STYLE"`
	PanelStyle      map[string]string `help:"Panel style overrides (foreground, background, border, width, bold)." env:"SLACKFEEDBACK_PANEL_STYLE"`
	PageURL         string            `help:"Address reported as the page the feedback was sent from." env:"SLACKFEEDBACK_PAGE_URL"`
	ImageHost       string            `help:"Image upload endpoint. Leave empty to disable image attachments." env:"SLACKFEEDBACK_IMAGE_HOST"`
	Webhook         string            `help:"Slack incoming webhook URL. Defaults to the value stored in the OS keyring." env:"SLACKFEEDBACK_WEBHOOK"`
	History         string            `help:"Delivery history database: a SQLite path or a postgres:// URL." env:"SLACKFEEDBACK_HISTORY"`
	Debug           bool              `help:"Enable debug logging. Records are copied to stderr outside the full-screen view." env:"SLACKFEEDBACK_DEBUG"`
	ConfigDir       string            `help:"Configuration directory." default:"${config_dir}" env:"SLACKFEEDBACK_CONFIG_DIR" type:"path"`
}

// Vars supplies the ${...} defaults referenced by Config's tags.
func Vars() kong.Vars {
	return kong.Vars{
		"channel":           constants.DefaultChannel,
		"user":              constants.DefaultUser,
		"emoji":             constants.DefaultEmoji,
		"button_text":       constants.DefaultButtonText,
		"image_upload_text": constants.DefaultImageUploadText,
		"site_key":          constants.DefaultSiteKey,
		"config_dir":        constants.DefaultConfigDir,
	}
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(kong.ExpandPath(dir), constants.ConfigFileName)
}

// SearchPaths lists the config files to load, honouring
// SLACKFEEDBACK_CONFIG_DIR before the flag is parsed.
func SearchPaths() []string {
	paths := []string{}
	if dir := os.Getenv(constants.EnvPrefix + "CONFIG_DIR"); dir != "" {
		paths = append(paths, Path(dir))
	}
	return append(paths, Path(constants.DefaultConfigDir))
}

// HistoryDSN returns the history database, defaulting to a SQLite file in
// the config directory.
func (c Config) HistoryDSN() string {
	if c.History != "" {
		return c.History
	}
	return filepath.Join(kong.ExpandPath(c.ConfigDir), constants.HistoryFileName)
}

// Location returns the page address reported with each submission.
func (c Config) Location() string {
	if c.PageURL != "" {
		return c.PageURL
	}
	return DefaultPageURL()
}

// DefaultPageURL identifies the terminal session: host plus working directory.
func DefaultPageURL() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	return (&url.URL{Scheme: "file", Host: host, Path: filepath.ToSlash(cwd)}).String()
}

// Validate checks the values kong cannot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Channel) == "" {
		return errors.New("channel cannot be empty")
	}
	if c.ImageHost != "" {
		u, err := url.Parse(c.ImageHost)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("image host %q must be an absolute http(s) URL", c.ImageHost)
		}
	}
	if _, err := TriggerStyle(c.TriggerStyle); err != nil {
		return fmt.Errorf("trigger style: %w", err)
	}
	if _, err := PanelStyle(c.PanelStyle); err != nil {
		return fmt.Errorf("panel style: %w", err)
	}
	return nil
}

// File is the on-disk shape of config.yaml. Keys match the flag names.
type File struct {
	Channel         string            `yaml:"channel,omitempty"`
	User            string            `yaml:"user,omitempty"`
	Emoji           string            `yaml:"emoji,omitempty"`
	Disabled        bool              `yaml:"disabled,omitempty"`
	ButtonText      string            `yaml:"button_text,omitempty"`
	ImageUploadText string            `yaml:"image_upload_text,omitempty"`
	SiteKey         string            `yaml:"site_key,omitempty"`
	TriggerStyle    map[string]string `yaml:"trigger_style,omitempty"`
	PanelStyle      map[string]string `yaml:"panel_style,omitempty"`
	PageURL         string            `yaml:"page_url,omitempty"`
	ImageHost       string            `yaml:"image_host,omitempty"`
	History         string            `yaml:"history,omitempty"`
}

// Save writes f to path, creating the directory. The webhook is never
// written; it lives in the keyring.
func Save(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Load reads path. A missing file yields an empty File.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// YAML is a kong.ConfigurationLoader for config.yaml. Keys may use the flag
// name as written (button-text) or with underscores (button_text).
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			raw, ok := values[key]
			if !ok {
				continue
			}
			v, err := flagValue(raw)
			if err != nil {
				return nil, fmt.Errorf("config key %q: %w", key, err)
			}
			return v, nil
		}
		return nil, nil
	}
	return f, nil
}

// flagValue flattens a YAML value into the string form kong parses from the
// command line. Maps become key=value pairs joined with ';'.
func flagValue(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v[k]))
		}
		return strings.Join(pairs, ";"), nil
	case []any:
		return nil, fmt.Errorf("lists are not supported")
	default:
		return fmt.Sprint(v), nil
	}
}
