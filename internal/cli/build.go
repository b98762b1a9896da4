package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/header"
	kfmio "github.com/matzehuels/kfmtool/pkg/io"
	"github.com/matzehuels/kfmtool/pkg/kfm"
)

// buildCommand creates the build command, which compiles an asset into a
// .kfm file and its C++ header.
func (c *CLI) buildCommand() *cobra.Command {
	var input, outputDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a .kfm file and its C++ header",
		Long: `Build a binary .kfm file and a matching C++ header from an asset.

Both files are named after the input's file stem: building broombot.yaml
produces broombot.kfm and broombot.h. The header declares one enum member
per anim in namespace <stem>_Anim, named after the anim's file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = c.Config.Build.OutputDir
			}
			return c.runBuild(cmd.Context(), input, outputDir)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file (.yaml, .kfm)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: input directory)")
	markAssetFlags(cmd, "input")
	_ = cmd.MarkFlagDirname("output-dir")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, outputDir string) error {
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	} else if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "path %q is not a directory", outputDir)
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if stem == "" || stem == "." {
		return errors.New(errors.ErrCodeInvalidPath, "input %q has no file stem", input)
	}

	f, err := kfmio.Import(ctx, input)
	if err != nil {
		return fmt.Errorf("load input file: %w", err)
	}

	// Render the header before writing anything so a bad anim path
	// leaves no half-built output behind.
	h, err := header.Make(stem, f.Body.Clips)
	if err != nil {
		return fmt.Errorf("make header: %w", err)
	}

	kfmPath := filepath.Join(outputDir, stem+".kfm")
	if err := kfmio.Export(ctx, f, kfmPath); err != nil {
		return fmt.Errorf("save output src file: %w", err)
	}
	headerPath := filepath.Join(outputDir, stem+".h")
	if err := os.WriteFile(headerPath, []byte(h), 0o644); err != nil {
		return fmt.Errorf("write output header file: %w", err)
	}

	printSuccess("Built %s", StyleHighlight.Render(stem))
	if dups := duplicateMembers(f.Body.Clips); len(dups) > 0 {
		printWarning("duplicate enum members: %s", strings.Join(dups, ", "))
	}
	printFile(kfmPath)
	printFile(headerPath)
	return nil
}

// duplicateMembers returns enum member names shared by more than one anim,
// in first-seen order.
func duplicateMembers(clips []kfm.Clip) []string {
	members, err := header.Members(clips)
	if err != nil {
		return nil
	}
	seen := make(map[string]int, len(members))
	var dups []string
	for _, m := range members {
		seen[m.Name]++
		if seen[m.Name] == 2 {
			dups = append(dups, m.Name)
		}
	}
	return dups
}
