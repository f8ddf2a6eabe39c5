package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractals/pkg/codec"
	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	size    string // "WxH"
	kind    string // "0", "1", "julia", "mandelbrot"
	output  string // output file path
	format  string // overrides the format implied by output
	workers int    // concurrent row bands
	noCache bool   // bypass the render cache
	refresh bool   // re-render and overwrite the cached entry
}

// renderCommand creates the render command.
//
// Flags left unset fall back to the [render] section of the config file.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a fractal to an image file",
		Long: `Render the Julia or Mandelbrot set to an image file.

The image format follows the output extension (.png, .jpg, .gif, .bmp, .tif);
paths without a known extension get .png appended.`,
		Example: `  fractals render
  fractals render -s 1920x1080 -t julia -o ~/julia.png
  fractals render -t 0 -o julia -f bmp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderConfig(cmd, &opts)
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.size, "size", "s", "400x400", "image size as WIDTHxHEIGHT")
	cmd.Flags().StringVarP(&opts.kind, "type", "t", "1", "fractal: 0 or julia, 1 or mandelbrot")
	cmd.Flags().StringVarP(&opts.output, "out", "o", pipeline.DefaultOutput, "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "image format: png, jpeg, gif, bmp, tiff (default from extension)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "number of concurrent row bands")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{"julia", "mandelbrot"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"png", "jpeg", "gif", "bmp", "tiff"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// applyRenderConfig fills flags the user did not set from the config file.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *renderOpts) {
	rc := c.Config.Render
	flags := cmd.Flags()
	if !flags.Changed("size") && rc.Width > 0 && rc.Height > 0 {
		opts.size = fmt.Sprintf("%dx%d", rc.Width, rc.Height)
	}
	if !flags.Changed("type") && rc.Kind != "" {
		opts.kind = rc.Kind
	}
	if !flags.Changed("out") && rc.Output != "" {
		opts.output = rc.Output
	}
	if !flags.Changed("format") && rc.Format != "" {
		opts.format = rc.Format
	}
	if !flags.Changed("workers") && rc.Workers > 0 {
		opts.workers = rc.Workers
	}
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	width, height := parseSize(opts.size)

	kind, err := fractal.ParseKind(opts.kind)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidKind, err, "invalid type value (%s)", opts.kind)
	}

	path, format, err := resolveOutput(expandHome(opts.output), opts.format)
	if err != nil {
		return err
	}

	return c.renderFile(ctx, pipeline.Options{
		Kind:    kind,
		Width:   width,
		Height:  height,
		Format:  format,
		Workers: opts.workers,
		Refresh: opts.refresh,
		Output:  path,
	}, opts.noCache)
}

// renderFile runs the pipeline for opts and writes the image to opts.Output.
func (c *CLI) renderFile(ctx context.Context, opts pipeline.Options, noCache bool) error {
	kind := opts.Kind
	c.Logger.Debugf("Rendering %s @ %dx%d", kind.Title(), opts.Width, opts.Height)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", kind.Title()))
	spinner.Start()

	prog := newProgress(c.Logger)
	opts.Progress = func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Rendering %s %3d%%", kind.Title(), done*100/total))
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}

	if err := codec.WriteFile(opts.Output, result.Artifact); err != nil {
		spinner.StopWithError("Could not write image")
		return err
	}
	spinner.Stop()
	prog.done("Wrote " + opts.Output)

	printSuccess("Rendered %s", StyleHighlight.Render(kind.Title()))
	printFile(opts.Output)
	printStats(result)
	return nil
}

// parseSize parses "WIDTHxHEIGHT". When either side is not a number the
// whole size falls back to the default; a zero side falls back on its own.
func parseSize(s string) (width, height int) {
	width, height = pipeline.DefaultWidth, pipeline.DefaultHeight

	left, right, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return width, height
	}
	w, errW := strconv.ParseUint(left, 10, 32)
	h, errH := strconv.ParseUint(right, 10, 32)
	if errW != nil || errH != nil {
		return width, height
	}
	if w > 0 {
		width = int(w)
	}
	if h > 0 {
		height = int(h)
	}
	return width, height
}

// resolveOutput decides the file path and image format. An explicit format
// wins over the extension; without either, PNG is used and ".png" appended.
func resolveOutput(path, format string) (string, string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", "", err
	}

	if format != "" {
		format = codec.NormalizeFormat(format)
		if err := codec.ValidateFormat(format); err != nil {
			return "", "", err
		}
		return codec.EnsureExtension(path, format), format, nil
	}

	if f, ok := codec.FormatFromPath(path); ok {
		return path, f, nil
	}
	return codec.EnsureExtension(path, codec.DefaultFormat), codec.DefaultFormat, nil
}
