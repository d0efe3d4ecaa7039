package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Print the message described by the flags",
		Args:  cobra.NoArgs,
		RunE:  Build,
	}

	output string
)

func init() {
	buildCmd.Flags().StringVarP(&output, "output", "o", "", "write the message to this file instead of stdout")
}

func Build(_ *cobra.Command, _ []string) error {
	msg, err := compose.Message()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	_, err = msg.WriteTo(w)
	return err
}
