package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "stallctl",
		Short:         "Check and submit street-food stall registrations.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Version: resolvedVersion(deps.Version),
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	root.AddCommand(newValidateCommand())
	root.AddCommand(newRegisterCommand(deps))

	return root
}

func resolvedVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "dev"
	}
	return v
}

// rejected prints a validation failure and exits with exitRejected.
func rejected(cmd *cobra.Command, err error) error {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return &exitError{code: exitRejected}
}
