package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/internal/preview"
	"github.com/gogpu/hwc/internal/scenario"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output string // output directory
	frames int    // number of frames to render, 0 for all
}

func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{}

	cmd := &cobra.Command{
		Use:   "preview <scenario.toml>",
		Short: "Render each frame's display plans to PNG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "number of frames to render (0 = all)")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, path string, opts previewOpts) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	_, err = c.play(ctx, s, opts.frames, func(i int, comp *hwc.Compositor) error {
		for idx := range hwc.MaxDisplays {
			d, err := comp.Display(idx)
			if err != nil {
				continue
			}
			name := filepath.Join(opts.output, fmt.Sprintf("frame-%03d-display-%d.png", i, idx))
			if err := writePreview(name, d); err != nil {
				return err
			}
			c.Logger.Debug("preview written", "path", name)
			written = append(written, name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.printSuccess("Rendered %d previews", len(written))
	for _, name := range written {
		c.printFile(name)
	}
	return nil
}

func writePreview(name string, d hwc.Display) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return preview.EncodePNG(f, preview.Render(d))
}
