package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kfmtool/pkg/index"
	kfmio "github.com/matzehuels/kfmtool/pkg/io"
	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/patch"
)

// patchOpts holds the command-line flags for the patch command.
type patchOpts struct {
	source string // asset to patch (.kfm or .yaml)
	patch  string // YAML patch file
	output string // destination; defaults to source
	atomic bool   // all-or-nothing application
}

// patchCommand creates the patch command for applying a patch file to an asset.
func (c *CLI) patchCommand() *cobra.Command {
	var opts patchOpts

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply a patch file to an asset",
		Long: `Apply a YAML patch file to a KFM asset.

The patch is a list of add, delete and update instructions on anims, each
optionally carrying instructions on the anim's transitions. Ids may be a
number or a /regex/ matched against the decimal id:

  anims:
  - update:
      id: /.*/
      trans:
      - add:
          id: 4
          type: default_non_sync

The source is rewritten in place unless --output is given. The result is
written in the format implied by the output file extension. Anims and
transitions come out sorted by id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("atomic") {
				opts.atomic = c.Config.Patch.Atomic
			}
			if opts.output == "" {
				opts.output = opts.source
			}
			return c.runPatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "src", "s", "", "asset to patch (.kfm, .yaml)")
	cmd.Flags().StringVarP(&opts.patch, "patch", "p", "", "patch file (.yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite source)")
	cmd.Flags().BoolVar(&opts.atomic, "atomic", true, "leave the asset untouched if any instruction fails")
	markAssetFlags(cmd, "src", "output")
	_ = cmd.MarkFlagFilename("patch", patchExtensions...)
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}

// runPatch loads the asset and patch, applies it and writes the result.
// Nothing is written when loading or application fails.
func (c *CLI) runPatch(ctx context.Context, opts patchOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	f, err := kfmio.Import(ctx, opts.source)
	if err != nil {
		return fmt.Errorf("load source file: %w", err)
	}
	p, err := patch.Load(opts.patch)
	if err != nil {
		return fmt.Errorf("load patch file: %w", err)
	}

	g, err := index.Build(f.Body)
	if err != nil {
		return fmt.Errorf("index source: %w", err)
	}

	if opts.atomic {
		g, err = patch.ApplyAtomic(g, p)
	} else {
		err = patch.Apply(g, p)
	}
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	out := &kfm.File{Header: f.Header, Body: g.Flatten()}
	if err := kfmio.Export(ctx, out, opts.output); err != nil {
		return fmt.Errorf("save output file: %w", err)
	}
	prog.done(fmt.Sprintf("Applied %d instructions", len(p.Clips)))

	printSuccess("Patched %s", StyleHighlight.Render(opts.source))
	printStats(g.Len(), g.EdgeCount(), len(out.Body.LayerGroups))
	printFile(opts.output)
	return nil
}
