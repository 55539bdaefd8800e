package cli

import (
	"errors"

	"github.com/alexanderramin/estimator/internal/config"
	"github.com/spf13/pflag"
)

// GlobalFlags are the persistent flags that change how the application is
// composed, so they are parsed before any command runs.
type GlobalFlags struct {
	ProjectsDir string
	DBPath      string
	LogLevel    string
}

// FlagSet binds the flags to g.
func (g *GlobalFlags) FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVar(&g.ProjectsDir, "projects-dir", g.ProjectsDir, "Directory holding project files")
	fs.StringVar(&g.DBPath, "db", g.DBPath, "Path of the local state database")
	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "Log level (debug, info, warn, error)")
	return fs
}

// ParseGlobalFlags extracts the global flags from args, ignoring everything
// else; commands and their own flags are left to cobra.
func ParseGlobalFlags(args []string) (*GlobalFlags, error) {
	g := &GlobalFlags{}
	fs := g.FlagSet()
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, err
	}
	return g, nil
}

// Apply overrides cfg with every flag that was given.
func (g *GlobalFlags) Apply(cfg *config.Config) {
	if g.ProjectsDir != "" {
		cfg.ProjectsDir = g.ProjectsDir
	}
	if g.DBPath != "" {
		cfg.DBPath = g.DBPath
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
}
