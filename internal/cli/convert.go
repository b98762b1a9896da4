package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	kfmio "github.com/matzehuels/kfmtool/pkg/io"
)

// convertCommand creates the convert command for switching between the
// binary and YAML forms of an asset.
func (c *CLI) convertCommand() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an asset between .kfm and .yaml",
		Long: `Convert an asset between its binary (.kfm) and text (.yaml, .yml) forms.

Without --output, a .kfm input is written next to itself as .yaml and a YAML
input as .kfm. The byte order recorded in the header is kept, so converting
to YAML and back reproduces the original file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), input, output)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file (.kfm, .yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with swapped extension)")
	markAssetFlags(cmd, "input", "output")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output string) error {
	if output == "" {
		var err error
		if output, err = kfmio.SwapExtension(input); err != nil {
			return err
		}
	}

	f, err := kfmio.Import(ctx, input)
	if err != nil {
		return fmt.Errorf("load input file: %w", err)
	}
	if err := kfmio.Export(ctx, f, output); err != nil {
		return fmt.Errorf("save output file: %w", err)
	}

	printSuccess("Converted %s", StyleHighlight.Render(input))
	printFile(output)
	return nil
}
