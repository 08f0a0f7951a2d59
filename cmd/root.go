// Package cmd provides the command-line interface for stache.
//
// Configuration is merged from three sources with clear precedence:
//
//	1. Command-line flags (--config, --templates, etc.) - highest priority
//	2. Environment variables with the STACHE_ prefix (STACHE_SERVER_PORT, ...)
//	3. A .stache.yml configuration file in the current directory
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stache",
	Short: "A compile-once, render-many mustache-style template engine",
	Long: `Stache compiles mustache-style templates ({{variables}}, {{#sections}},
{{^inverted}}, {{!comments}}, {{>partials}}) into node trees once, caches them
by identifier, and renders them repeatedly against structured data.

Quick Start:
  stache check                    Validate every template in the templates dir
  stache render page --data d.yml Render one template to stdout
  stache serve --data d.yml       Preview templates with live reload`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .stache.yml)")
	rootCmd.PersistentFlags().String("templates", "", "directory holding template sources")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	bindFlags(rootCmd.PersistentFlags())
}

// bindFlags maps persistent flags onto their viper keys.
func bindFlags(flags *pflag.FlagSet) {
	mustBind("templates.dir", flags.Lookup("templates"))
	mustBind("log_level", flags.Lookup("log-level"))
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", key, err))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stache")
	}

	viper.SetEnvPrefix("STACHE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and env vars still apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
