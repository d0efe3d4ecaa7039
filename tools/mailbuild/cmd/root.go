package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:              "mailbuild",
		Short:            "Build MIME messages from the command line",
		PersistentPreRun: setupLogging,
	}

	verbose bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build decisions to stderr")
	addMessageFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(envelopeCmd)
	rootCmd.AddCommand(treeCmd)
}

func setupLogging(_ *cobra.Command, _ []string) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func Execute() {
	err := rootCmd.Execute()
	cobra.CheckErr(err)
}
