package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mimebuild/message"
	"github.com/zostay/go-mimebuild/message/walk"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the structure of the message described by the flags",
	Args:  cobra.NoArgs,
	RunE:  Tree,
}

func Tree(cmd *cobra.Command, _ []string) error {
	msg, err := compose.Message()
	if err != nil {
		return err
	}

	// boundaries and content types are settled by a build
	if _, err := msg.Build(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return walk.AndProcess(
		func(node *message.Node, parents []*message.Node) error {
			line := fmt.Sprintf("%s%d %s", strings.Repeat("  ", len(parents)), node.ID(), node.ContentType())
			if fn := node.Filename(); fn != "" {
				line += " " + fn
			}
			if b := node.Boundary(); b != "" {
				line += " boundary=" + b
			}
			_, err := fmt.Fprintln(out, line)
			return err
		}, msg)
}
