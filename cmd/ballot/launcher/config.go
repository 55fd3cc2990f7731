// This file maps the CLI context and the optional TOML file to the config struct.

package launcher

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-ballot/integration"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig
	Store   integration.PresetConfig
	Session SessionConfig
	FakeNet FakeNetConfig
}

type NodeConfig struct {
	DataDir   string
	Logging   LoggingConfig
	SentryDSN string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

type SessionConfig struct {
	Name       string
	Candidates uint64
	EndBlock   uint64
	Ledger     common.Address
	Owner      common.Address
}

type FakeNetConfig struct {
	Accounts int
	Balance  string
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	defaults := DefaultConfig()
	preset, err := integration.GetPresetByName(defaults.Storage.Preset)
	if err != nil {
		panic(err)
	}
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(defaults.Node.DataDir),
			Logging: LoggingConfig{
				Verbosity: defaults.Logging.Verbosity,
				Format:    defaults.Logging.Format,
				Color:     defaults.Logging.Color,
			},
		},
		Store: preset,
		Session: SessionConfig{
			Name:       defaults.Session.Name,
			Candidates: defaults.Session.Candidates,
			EndBlock:   defaults.Session.EndBlock,
			Ledger:     defaults.Session.Ledger,
			Owner:      defaults.Session.Owner,
		},
		FakeNet: FakeNetConfig{
			Accounts: defaults.FakeNet.Accounts,
			Balance:  defaults.FakeNet.Balance,
		},
	}
}

// MakeAllConfigs merges defaults, the optional config file, and CLI
// overrides into a single config struct. Global accessors are used so the
// same code serves the top-level and subcommand contexts.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// dumpConfig writes cfg as TOML.
func dumpConfig(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.GlobalString("datadir"))
	}

	if ctx.GlobalIsSet("preset") {
		preset, err := integration.GetPresetByName(ctx.GlobalString("preset"))
		if err != nil {
			return err
		}
		integration.ApplyPreset(&cfg.Store, preset)
	}
	if ctx.GlobalIsSet("cache") {
		cfg.Store.CacheMB = ctx.GlobalInt("cache")
	}
	if ctx.GlobalIsSet("cache.heads") {
		cfg.Store.HeadCacheSize = ctx.GlobalInt("cache.heads")
	}

	if ctx.GlobalIsSet("log.format") {
		cfg.Node.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Node.Logging.Color = ctx.GlobalBool("log.color")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Node.SentryDSN = ctx.GlobalString("sentry.dsn")
	}

	if ctx.GlobalIsSet("session.name") {
		cfg.Session.Name = ctx.GlobalString("session.name")
	}
	if ctx.GlobalIsSet("session.candidates") {
		cfg.Session.Candidates = ctx.GlobalUint64("session.candidates")
	}
	if ctx.GlobalIsSet("session.end") {
		cfg.Session.EndBlock = ctx.GlobalUint64("session.end")
	}
	if ctx.GlobalIsSet("session.ledger") {
		acc, err := parseAccount(ctx.GlobalString("session.ledger"))
		if err != nil {
			return err
		}
		cfg.Session.Ledger = acc
	}
	if ctx.GlobalIsSet("session.owner") {
		acc, err := parseAccount(ctx.GlobalString("session.owner"))
		if err != nil {
			return err
		}
		cfg.Session.Owner = acc
	}

	if ctx.GlobalIsSet("fakenet.accounts") {
		cfg.FakeNet.Accounts = ctx.GlobalInt("fakenet.accounts")
	}
	if ctx.GlobalIsSet("fakenet.balance") {
		cfg.FakeNet.Balance = ctx.GlobalString("fakenet.balance")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
