// Package cli provides the command-line interface for colormap.
package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/colormap/internal/colour"
	"github.com/jmylchreest/colormap/internal/extract"
	"github.com/jmylchreest/colormap/internal/image"
	"github.com/jmylchreest/colormap/internal/seed"
)

// validFormats lists the supported output formats.
var validFormats = []string{"hex", "rgb", "json", "table"}

// extractOptions holds the flags shared by the root and extract commands.
type extractOptions struct {
	colours       int
	mean          bool
	aggregation   colour.Aggregation
	crop          bool
	debug         bool
	debugDir      string
	algorithm     string
	format        string
	output        string
	preview       bool
	noPreview     bool
	seedMode      string
	seed          int64
	maxIterations int
	maxDimension  int
	cacheDir      string
}

func newExtractOptions() *extractOptions {
	return &extractOptions{
		aggregation: colour.AggregationMedian,
	}
}

// aggregationValue adapts colour.Aggregation to pflag.Value.
type aggregationValue colour.Aggregation

var _ pflag.Value = (*aggregationValue)(nil)

func (a *aggregationValue) String() string { return string(*a) }

func (a *aggregationValue) Set(s string) error {
	parsed, err := colour.ParseAggregation(s)
	if err != nil {
		return err
	}
	*a = aggregationValue(parsed)
	return nil
}

func (a *aggregationValue) Type() string { return "mean|median" }

// register binds the extract flags to cmd.
func (o *extractOptions) register(cmd *cobra.Command) {
	defaults := extract.DefaultConfig()

	flags := cmd.Flags()
	flags.IntVarP(&o.colours, "centroids", "k", defaults.Colours, "number of dominant colours to find")
	flags.BoolVarP(&o.mean, "mean", "m", false, "calculate centroids using the mean instead of the median")
	flags.Var((*aggregationValue)(&o.aggregation), "aggregation", "centroid aggregation (mean, median)")
	flags.BoolVarP(&o.crop, "crop", "c", false, "crop image borders by 25% (for images with the object at the centre)")
	flags.BoolVar(&o.debug, "debug", false, "save the masked image to the debug directory")
	flags.StringVar(&o.debugDir, "debug-dir", defaults.DebugDir, "directory for debug snapshots (env: "+extract.EnvDebugDir+")")
	flags.StringVarP(&o.algorithm, "algorithm", "a", string(defaults.Algorithm), "extraction algorithm (kmeans, kmeans-lab, dominant, prominent)")
	flags.StringVarP(&o.format, "format", "f", "hex", "output format (hex, rgb, json, table)")
	flags.StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVar(&o.preview, "preview", false, "always show colour swatches")
	flags.BoolVar(&o.noPreview, "no-preview", false, "never show colour swatches")
	flags.StringVar(&o.seedMode, "seed-mode", string(seed.DefaultMode()), "k-means++ seed mode: content, filepath, manual, random (env: "+seed.EnvMode+")")
	flags.Int64Var(&o.seed, "seed", 0, "k-means++ seed value (implies --seed-mode=manual)")
	flags.IntVar(&o.maxIterations, "max-iterations", defaults.MaxIterations, "maximum k-means iterations before giving up")
	flags.IntVar(&o.maxDimension, "max-dimension", 0, "downscale images larger than this many pixels per side (0 disables)")
	flags.StringVar(&o.cacheDir, "cache-dir", "", "directory for downloaded images (default: user cache dir)")

	cmd.MarkFlagsMutuallyExclusive("preview", "no-preview")
}

// config converts the flags into a validated extraction configuration.
func (o *extractOptions) config() (extract.Config, error) {
	cfg := extract.DefaultConfig()
	cfg.Colours = o.colours
	cfg.Algorithm = colour.Algorithm(o.algorithm)
	cfg.Aggregation = o.aggregation
	if o.mean {
		cfg.Aggregation = colour.AggregationMean
	}
	cfg.MaxIterations = o.maxIterations
	cfg.Crop = o.crop
	cfg.Debug = o.debug
	cfg.DebugDir = o.debugDir
	cfg.MaxDimension = o.maxDimension

	switch {
	case cfg.Colours < 1:
		return cfg, &ConfigError{Flag: "centroids", Err: fmt.Errorf("must be a positive integer, got %d", cfg.Colours)}
	case !colour.IsValidAlgorithm(cfg.Algorithm):
		return cfg, &ConfigError{Flag: "algorithm", Err: fmt.Errorf("unknown algorithm %q (valid algorithms: %v)", o.algorithm, colour.ValidAlgorithms())}
	case !slices.Contains(validFormats, o.format):
		return cfg, &ConfigError{Flag: "format", Err: fmt.Errorf("unsupported format %q (supported: %s)", o.format, strings.Join(validFormats, ", "))}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, &ConfigError{Err: err}
	}
	return cfg, nil
}

// seedConfig resolves the seed flags. An explicit --seed forces manual mode.
func (o *extractOptions) seedConfig(cmd *cobra.Command) (seed.Config, error) {
	mode, err := seed.ParseMode(o.seedMode)
	if err != nil {
		return seed.Config{}, &ConfigError{Flag: "seed-mode", Err: err}
	}
	if cmd.Flags().Changed("seed") {
		mode = seed.ModeManual
	}
	value := o.seed
	return seed.Config{Mode: mode, Value: &value}, nil
}

func newExtractCmd(opts *extractOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract the dominant colours of an image",
		Long: `Extract the K most dominant colours of an image.

If all four corners of the image are light (every channel >= 200) or dark
(every channel <= 55), the background connected to the corners is removed
before the colours are counted.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Find the 3 most dominant colours (median centroids)
  colormap extract photo.jpg

  # Find 5 colours using mean centroids
  colormap extract -k 5 --mean photo.jpg

  # Crop the outer border first, for a product shot on a backdrop
  colormap extract --crop product.png

  # Save the masked image to ./.tmp for inspection
  colormap extract --debug logo.png

  # Reproducible output
  colormap extract --seed 42 --format json photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}
	opts.register(cmd)
	return cmd
}

// runExtract executes one extraction.
func runExtract(cmd *cobra.Command, opts *extractOptions, imagePath string) error {
	logger := newLogger(cmd)

	cfg, err := opts.config()
	if err != nil {
		return err
	}
	seedCfg, err := opts.seedConfig(cmd)
	if err != nil {
		return err
	}

	logger.Debug("loading image", "path", imagePath)
	loader := image.NewSmartLoader(opts.cacheDir)
	img, err := loader.Load(imagePath)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	seedValue, err := seed.Calculate(img, imagePath, seedCfg)
	if err != nil {
		return &ConfigError{Flag: "seed-mode", Err: err}
	}
	logger.Debug("k-means++ seed", "mode", seedCfg.Mode, "seed", seedValue)

	palette, err := extract.DominantColours(img, cfg, seed.New(seedValue), logger)
	if err != nil {
		return err
	}

	preview := opts.preview ||
		(!opts.noPreview && opts.output == "" && colour.SupportsANSIColours(stdoutFile(cmd)))

	output, err := formatPalette(palette, opts.format, preview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.output != "" {
		logger.Debug("writing output", "path", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - Output files need standard read permissions
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// stdoutFile returns the command's output as a file, or nil when it is
// redirected to something else.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	case "table":
		return formatTable(palette, showPreview), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(validFormats, ", "))
	}
}

// formatHex formats the palette as hex colour codes, one per line.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, e := range palette.Entries {
		if showPreview {
			sb.WriteString(colour.FormatColourWithPreview(e.RGB, 8))
		} else {
			sb.WriteString(e.RGB.Hex())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, e := range palette.Entries {
		if showPreview {
			sb.WriteString(colour.ColourPreview(e.RGB, 8) + "  ")
		}
		sb.WriteString(e.RGB.String() + "\n")
	}
	return sb.String()
}

// formatTable formats the palette with pixel counts and shares.
func formatTable(palette *colour.Palette, showPreview bool) string {
	headers := []string{"#", "HEX", "RGB", "PIXELS", "SHARE"}
	if showPreview {
		headers = append([]string{""}, headers...)
	}

	table := NewTable(headers)
	for i, e := range palette.Entries {
		row := []string{
			strconv.Itoa(i + 1),
			e.RGB.Hex(),
			e.RGB.String(),
			strconv.FormatUint(e.Count, 10),
			fmt.Sprintf("%.1f%%", palette.Share(i)*100),
		}
		if showPreview {
			row = append([]string{colour.ColourPreviewWithText(e.RGB, strconv.Itoa(i+1), 4)}, row...)
		}
		table.AddRow(row)
	}
	return table.Render()
}
