package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
	"github.com/ironsheep/color-adjacency-mcp/internal/imaging"
)

// regionFlags are the cropping flags shared by analyze and encode.
type regionFlags struct {
	region     string
	regionName string
	scale      float64
}

func (f *regionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.region, "region", "", "crop rectangle x1,y1,x2,y2 (x2, y2 exclusive)")
	cmd.Flags().StringVar(&f.regionName, "region-name", "", "named crop: top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center")
	cmd.Flags().Float64Var(&f.scale, "scale", 1.0, "nearest-neighbour scale factor applied after cropping")
	cmd.MarkFlagsMutuallyExclusive("region", "region-name")
}

// encodeImage loads path and encodes it with the cropping flags applied.
func (f *regionFlags) encodeImage(path string) (*imaging.EncodeResult, error) {
	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return nil, err
	}

	opts := imaging.EncodeOptions{Scale: f.scale}
	switch {
	case f.region != "":
		r, err := parseRegion(f.region)
		if err != nil {
			return nil, err
		}
		opts.Region = &r
	case f.regionName != "":
		b := img.Bounds()
		r, err := imaging.NamedRegion(b.Dx(), b.Dy(), f.regionName)
		if err != nil {
			return nil, err
		}
		r.X1, r.X2 = r.X1+b.Min.X, r.X2+b.Min.X
		r.Y1, r.Y2 = r.Y1+b.Min.Y, r.Y2+b.Min.Y
		opts.Region = &r
	}
	return imaging.EncodePixels(img, opts)
}

// parseRegion parses "x1,y1,x2,y2".
func parseRegion(s string) (imaging.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.Region{}, apperrors.New(apperrors.ErrCodeInvalidRegion, "region %q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return imaging.Region{}, apperrors.Wrap(apperrors.ErrCodeInvalidRegion, err, "region %q", s)
		}
		v[i] = n
	}
	return imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

type analyzeOptions struct {
	payloadFile string
	image       string
	width       int
	height      int
	mode        string
	maxColors   int
	workers     int
	adjacency   bool
	output      string
	regionFlags
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the color complement graph of a render",
		Long: `Compute the color complement graph of a render.

The input is either a payload file of whitespace-separated color components
(three per pixel, row-major; '-' reads stdin) with its dimensions, or an image
file that is encoded first. Each output line lists a color followed by the
colors it never touches in any 3x3 window:

  <color>: <color> <color> ...

With --adjacency the touching colors are printed instead.`,
		Example: `  color-adjacency-mcp analyze --payload-file render.txt -W 640 -H 480 --mode "16 bit"
  color-adjacency-mcp analyze --image render.png --region-name top-half`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.payloadFile, "payload-file", "", "payload file ('-' for stdin)")
	cmd.Flags().StringVar(&opts.image, "image", "", "image file to encode and analyze")
	cmd.Flags().IntVarP(&opts.width, "width", "W", 0, "payload width in pixels")
	cmd.Flags().IntVarP(&opts.height, "height", "H", 0, "payload height in pixels")
	cmd.Flags().StringVar(&opts.mode, "mode", "", `mode: "8 bit", "16 bit" or "32 bit" (default: config, or the image's bit depth)`)
	cmd.Flags().IntVar(&opts.maxColors, "max-colors", 0, "expected distinct colors (default: counted from the input)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker goroutines (default: config, or GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.adjacency, "adjacency", false, "print the adjacency graph instead of its complement")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	opts.regionFlags.register(cmd)

	cmd.MarkFlagsMutuallyExclusive("payload-file", "image")
	cmd.MarkFlagsOneRequired("payload-file", "image")
	cmd.MarkFlagsRequiredTogether("width", "height")
	cmd.MarkFlagsMutuallyExclusive("image", "width")
	cmd.MarkFlagsMutuallyExclusive("payload-file", "region")
	cmd.MarkFlagsMutuallyExclusive("payload-file", "region-name")

	return cmd
}

// runAnalyze resolves the input, runs the analyzer and writes the result.
func (c *CLI) runAnalyze(ctx context.Context, cmd *cobra.Command, opts analyzeOptions) error {
	req := adjacency.Request{MaxNumColors: opts.maxColors}

	switch {
	case opts.image != "":
		enc, err := opts.encodeImage(opts.image)
		if err != nil {
			return fmt.Errorf("encode %s: %w", opts.image, err)
		}
		req.Payload, req.Width, req.Height, req.Mode = enc.Payload, enc.Width, enc.Height, enc.Mode
		if req.MaxNumColors <= 0 {
			req.MaxNumColors = enc.Colors
		}
	default:
		payload, err := readPayload(cmd.InOrStdin(), opts.payloadFile)
		if err != nil {
			return err
		}
		req.Payload, req.Width, req.Height = payload, opts.width, opts.height
		req.Mode = c.cfg.DefaultMode()
		if req.MaxNumColors <= 0 {
			req.MaxNumColors = imaging.CountColors(payload)
		}
	}

	if opts.mode != "" {
		mode, err := adjacency.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		req.Mode = mode
	}

	analyzerOpts := c.cfg.AnalyzerOptions()
	if opts.workers > 0 {
		analyzerOpts.Workers = opts.workers
	}

	prog := newProgress(c.Logger)
	res, err := adjacency.NewAnalyzer(analyzerOpts, c.Logger).Run(req)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("analysis complete",
		"size", fmt.Sprintf("%dx%d", req.Width, req.Height),
		"mode", req.Mode,
		"colors", res.Stats.Colors,
		"ignored", res.Stats.Ignored)

	text := res.Text()
	if opts.adjacency {
		text = adjacency.Format(res.Adjacency)
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, text)
}

// readPayload reads a payload from path, or from stdin when path is "-".
func readPayload(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "payload file %s", path)
		}
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read payload %s", path)
	}
	return string(data), nil
}

// writeOutput writes text followed by a newline to path, or to stdout when
// path is empty. Empty text writes nothing.
func writeOutput(stdout io.Writer, path, text string) error {
	if text != "" {
		text += "\n"
	}
	if path == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
