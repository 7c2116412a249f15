package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the profile reads,
// e.g. FLASHCARD2_DATA.
const EnvPrefix = "flashcard2"

// Profile is the configuration the CLI runs with.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Data is the data directory
	Data string
	// DSN points to the sqlite database file
	DSN string
	// LogLevel is one of debug, info, warn, error
	LogLevel string
	// HideUnmarkedText drops answer text lines that are not directly followed
	// by a checklist item.
	HideUnmarkedText bool
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", "prod")
	v.SetDefault("log-level", "warn")
	v.SetDefault("hide-unmarked", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// FromViper builds a profile from flags, environment and defaults bound to v.
func FromViper(v *viper.Viper) *Profile {
	return &Profile{
		Mode:             v.GetString("mode"),
		Data:             v.GetString("data"),
		DSN:              v.GetString("dsn"),
		LogLevel:         v.GetString("log-level"),
		HideUnmarkedText: v.GetBool("hide-unmarked"),
	}
}

// Level maps LogLevel onto a slog level. Unknown names fall back to warn.
func (p *Profile) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(p.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".flashcard2"), nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "prod"
	}

	if p.Data == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return err
		}
		p.Data = dir
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.DSN == "" {
		dbFile := "flashcard2.db"
		if p.IsDev() {
			dbFile = "flashcard2_dev.db"
		}
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	return nil
}
