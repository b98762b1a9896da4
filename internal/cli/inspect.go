package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	kfmio "github.com/matzehuels/kfmtool/pkg/io"
	"github.com/matzehuels/kfmtool/pkg/kfm"
)

// inspectCommand creates the inspect command, which prints a summary of an asset.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "inspect [file]",
		Short:             "Summarize an asset",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAssetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInspect(ctx context.Context, path string) error {
	f, err := kfmio.Import(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	fmt.Println()
	printKeyValue("version", strconv.Itoa(int(f.Header.Version)))
	printKeyValue("byte order", byteOrderName(f.Header))
	printKeyValue("model", f.Body.Model.Path)
	printKeyValue("root", f.Body.Model.Root)
	dt := f.Body.DefaultTransitions
	printKeyValue("default sync", fmt.Sprintf("%s %gs", dt.SyncKind, dt.SyncDuration))
	printKeyValue("default non-sync", fmt.Sprintf("%s %gs", dt.NonSyncKind, dt.NonSyncDuration))
	fmt.Println()

	fmt.Println(clipTable(f.Body.Clips))
	edges := 0
	for _, clip := range f.Body.Clips {
		edges += len(clip.Edges)
	}
	printStats(len(f.Body.Clips), edges, len(f.Body.LayerGroups))
	return nil
}

func byteOrderName(h kfm.Header) string {
	if h.IsLittleEndian {
		return "little endian"
	}
	return "big endian"
}

// clipTable renders one row per anim with its transition counts by kind.
func clipTable(clips []kfm.Clip) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(clips))
	for _, clip := range clips {
		defaults, custom := 0, 0
		for _, e := range clip.Edges {
			if e.Kind.HasExtension() {
				custom++
			} else {
				defaults++
			}
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(clip.ID), 10),
			clip.Path,
			strconv.FormatUint(uint64(clip.Index), 10),
			strconv.Itoa(defaults),
			strconv.Itoa(custom),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Path", "Index", "Default", "Custom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
