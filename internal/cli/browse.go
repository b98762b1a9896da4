package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	kfmio "github.com/matzehuels/kfmtool/pkg/io"
)

// browseCommand creates the browse command, an interactive anim browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse [file]",
		Short:             "Browse the anims and transitions of an asset",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAssetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, path string) error {
	f, err := kfmio.Import(ctx, path)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewClipListModel(path, f.Body), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
