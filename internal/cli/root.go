// Package cli implements the htmlwhitelist command line tool.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/njchilds90/htmlwhitelist/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "htmlwhitelist",
	Short: "Whitelist-based HTML sanitiser",
	Long: `htmlwhitelist cleans HTML against a compact whitelist grammar.

Rules are comma-separated element clauses such as:

  @[id|class],#p,a[!href|target<_blank?_self|rel],img[!src|alt]

Sanitise a file to stdout:
  htmlwhitelist clean page.html

Sanitise a directory into out/:
  htmlwhitelist clean -o out site/

Keep a directory clean as files change:
  htmlwhitelist watch -o out site/`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./htmlwhitelist.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the configuration, honouring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{ConfigFile: cfgFile})
}

// setupLogging configures zerolog based on verbosity.
func setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
