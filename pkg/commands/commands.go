package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
	lo = &options.LogOptions{}
	do = &options.DocumentOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "resume",
		Short: options.Wrap80("Edit a structured resume on the command line, in a shell, over HTTP or from an MCP client."),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			oo.Out = cmd.OutOrStdout()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	options.AddOutputArg(cmd, oo)
	options.AddLogArgs(cmd, lo)
	options.AddDocumentArg(cmd, do)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addSection(topLevel)
	addEntry(topLevel)
	addBullet(topLevel)
	addHeader(topLevel)
	addContact(topLevel)
	addToggle(topLevel)
	addMove(topLevel)
	addDelete(topLevel)
	addSet(topLevel)
	addReset(topLevel)
	addShow(topLevel)
	addOutline(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addShell(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
