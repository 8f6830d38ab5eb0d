package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/docforge/docforge/internal/bootstrap"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/errors"
	"github.com/docforge/docforge/internal/logging"
)

var cfgFile string

var (
	// app is constructed once per process by setupApplication.
	app *bootstrap.Application

	// newEnvironment builds the runtime environment to normalize.
	newEnvironment = func(cfg *config.Config) bootstrap.Environment {
		return bootstrap.NewProcessEnvironment(cfg.Runtime.Settings, cfg.Runtime.Extensions)
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Generate API documentation from source comments",
	Long: `docforge generates API documentation from the doc comments in your source.

Before any command runs, docforge prepares its runtime: the timezone defaults
to UTC when none is configured, memory limits are lifted, and startup is refused
if a loaded runtime extension would strip doc comments from parsed source.

Quick Start:
  docforge version                 Show the installed version
  docforge env                     Show template, cache and runtime details`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApplication,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit status:
// 0 for nil, 2 for invalid configuration the user can correct, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsRecoverable(err):
		return 2
	default:
		return 1
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is .docforge.yml, can also use DOCFORGE_CONFIG_FILE env var)")
	pf.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.String("install-root", "", "installation root holding VERSION and data/templates (default: parent of the executable's directory)")
	pf.String("cache-folder", "", "cache folder used by the storage layer")
	pf.StringToString("runtime-setting", nil, "runtime setting as key=value, e.g. opcache.save_comments=1")
	pf.StringSlice("runtime-extension", nil, "name of a loaded runtime extension, e.g. \"Zend OPcache\"")
}

// bindFlags maps persistent flags onto their configuration keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	bindings := map[string]string{
		config.KeyLogLevel:          "log-level",
		config.KeyLogFormat:         "log-format",
		config.KeyInstallRoot:       "install-root",
		config.KeyCacheFolder:       "cache-folder",
		config.KeyRuntimeSettings:   "runtime-setting",
		config.KeyRuntimeExtensions: "runtime-extension",
	}
	for key, name := range bindings {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// initConfig loads configuration with this precedence:
//  1. --config flag
//  2. DOCFORGE_CONFIG_FILE environment variable
//  3. .docforge.yml in the current directory
//
// DOCFORGE_ prefixed variables override individual keys, e.g.
// DOCFORGE_CACHE_FOLDER=/var/cache/docforge. Runtime extensions are comma
// separated in DOCFORGE_RUNTIME_EXTENSIONS and each runtime setting has its
// own variable: DOCFORGE_RUNTIME_SETTINGS_OPCACHE_SAVE_COMMENTS=1.
func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCFORGE_CONFIG_FILE"); envConfigFile != "" {
		v.SetConfigFile(envConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".docforge")
	}

	config.SetDefaults(v)
	config.BindEnv(v)
	bindFlags(v, rootCmd.PersistentFlags())

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

// setupApplication runs the bootstrap before any command and wires the
// cache folder. A failure aborts the command.
func setupApplication(cmd *cobra.Command, args []string) error {
	if app != nil {
		return nil
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	// Load lets DOCFORGE_RUNTIME_SETTINGS_* win over the bound flag map, so
	// explicit --runtime-setting entries are laid on top again here.
	if f := cmd.Flags().Lookup("runtime-setting"); f != nil && f.Changed {
		flagSettings, err := cmd.Flags().GetStringToString("runtime-setting")
		if err != nil {
			return err
		}
		cfg.Runtime.MergeSettings(flagSettings)
	}

	loggerConfig := cfg.LoggerConfig()
	loggerConfig.Output = cmd.ErrOrStderr()
	logger := logging.NewLogger(loggerConfig)

	opts := []bootstrap.Option{bootstrap.WithLogger(logger)}
	if cfg.InstallRoot != "" {
		opts = append(opts, bootstrap.WithInstallRoot(cfg.InstallRoot))
	}

	a, err := bootstrap.New(newEnvironment(cfg), opts...)
	if err != nil {
		return err
	}

	if cfg.Cache.Folder != "" {
		a.SetCacheFolder(cfg.Cache.Folder)
	}

	app = a
	return nil
}
