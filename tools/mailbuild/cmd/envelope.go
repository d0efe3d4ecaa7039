package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Print the SMTP envelope of the message described by the flags as JSON",
	Args:  cobra.NoArgs,
	RunE:  Envelope,
}

func Envelope(_ *cobra.Command, _ []string) error {
	msg, err := compose.Message()
	if err != nil {
		return err
	}

	env, err := msg.Envelope()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
