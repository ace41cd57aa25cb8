package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
)

const (
	app       = "jobfit"
	envPrefix = "JOBFIT"
)

// Viper keys.
const (
	keyConfig         = "config"
	keyEnv            = "env"
	keyLogLevel       = "log-level"
	keyCorpus         = "corpus"
	keyOut            = "artifacts.dir"
	keyFields         = "fit.fields"
	keyCombinedColumn = "fit.combined_column"
	keyStem           = "fit.stem"
	keyQuery          = "query"
	keyTopK           = "top-k"
)

// cli carries the per-invocation settings shared by subcommands.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	defaults := domain.DefaultMatchConfig()
	c.v.SetDefault(keyEnv, "local")
	c.v.SetDefault(keyOut, "artifacts")
	c.v.SetDefault(keyFields, defaults.Fields)
	c.v.SetDefault(keyCombinedColumn, defaults.CombinedColumn)
	c.v.SetDefault(keyTopK, defaults.DefaultTopK)

	root := &cobra.Command{
		Use:           app,
		Short:         "jobfit fits the TF-IDF job matching model and inspects its artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.loadConfigFile()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "service config file (config/<env>.yaml); its fit and artifacts sections become defaults")
	pf.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	_ = c.v.BindPFlag(keyConfig, pf.Lookup(keyConfig))
	_ = c.v.BindPFlag(keyLogLevel, pf.Lookup(keyLogLevel))

	root.AddCommand(c.newFitCmd(), c.newInspectCmd(), c.newVersionCmd())
	return root
}

// loadConfigFile layers the service YAML config under flags and env.
// It goes through config.LoadFile so ${VAR:-default} expansion matches the server.
func (c *cli) loadConfigFile() error {
	path := c.v.GetString(keyConfig)
	if path == "" {
		return nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	c.v.SetDefault(keyOut, cfg.Artifacts.Dir)
	c.v.SetDefault(keyFields, cfg.Fit.Fields)
	c.v.SetDefault(keyCombinedColumn, cfg.Fit.CombinedColumn)
	c.v.SetDefault(keyStem, cfg.Fit.Stem)
	c.v.SetDefault(keyTopK, cfg.Matcher.DefaultTopK)
	return nil
}

// bindFlags binds the running command's flags to viper keys. Subcommands
// share keys (fit --out, inspect --dir), so binding happens at run time.
func (c *cli) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := c.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func (c *cli) logger() (*zap.Logger, error) {
	l, err := logpkg.NewLogger(app, c.v.GetString(keyEnv), c.v.GetString(keyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}

// stringList reads a list that may come from a flag, a YAML list or a
// comma-separated env var. Field names may contain spaces.
func (c *cli) stringList(key string) []string {
	var raw []string
	switch v := c.v.Get(key).(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, x := range v {
			raw = append(raw, fmt.Sprint(x))
		}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
