package cli

import (
	"fmt"

	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the recognized preferred languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, tag := range domain.Languages {
				marker := ""
				if tag == domain.DefaultLanguage {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%-8s %s%s\n", tag, domain.LanguageName(tag), marker)
			}
		},
	}
}
