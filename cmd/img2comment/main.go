// Command img2comment renders images as ' '/'*' glyph art wrapped in source
// code comments.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wbrown/img2comment"
	"github.com/wbrown/img2comment/config"
)

// options holds the raw flag values. Only flags the user actually set are
// copied over the config file.
type options struct {
	configPath string
	flags      config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{flags: config.Default()}

	cmd := &cobra.Command{
		Use:   "img2comment [flags] IMAGE...",
		Short: "Render images as glyph art inside source code comments",
		Long: `img2comment converts raster images into a grid of ' ' and '*' characters,
each line prefixed with the comment marker of the target language.

The grid size is picked automatically: the thinnest black or white feature
in the image becomes about one character, halved again to account for text
cells being taller than they are wide.

With one input the result goes to output_comments.txt next to the image
(or --output, "-" for stdout). With several inputs each result is written
to <name>.txt in --out-dir, or next to its image.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML or TOML config file")

	f := cmd.Flags()
	f.StringVarP(&opts.flags.Language, "lang", "l", opts.flags.Language,
		"Target language (python, c, cpp, c#, java, rust, js, go, ...)")
	f.StringVarP(&opts.flags.Output, "output", "o", "",
		"Output file for a single input, - for stdout")
	f.StringVar(&opts.flags.OutDir, "out-dir", "", "Output directory for several inputs")
	f.Float64Var(&opts.flags.AspectDivisor, "aspect", opts.flags.AspectDivisor,
		"Divide both grid dimensions by this to match the glyph aspect ratio")
	f.StringVar(&opts.flags.Interpolation, "interp", opts.flags.Interpolation,
		"Resampling filter: area, linear, nearest, catmullrom, lanczos")
	f.StringVar(&opts.flags.DefaultMarker, "default-marker", opts.flags.DefaultMarker,
		"Comment marker for unrecognized languages")
	f.IntVarP(&opts.flags.Concurrency, "concurrency", "j", 0,
		"Images converted at once (0 = number of CPUs)")
	f.IntVar(&opts.flags.MaxPixels, "max-pixels", opts.flags.MaxPixels,
		"Reject images with more pixels than this (0 = no limit)")
	f.BoolVar(&opts.flags.AutoOrient, "auto-orient", false,
		"Rotate JPEGs according to their EXIF orientation")
	f.StringVar(&opts.flags.DebugDir, "debug-dir", "",
		"Write intermediate binarized and resampled images here")
	f.StringVar(&opts.flags.LogFile, "log-file", "", "Write logs to this rotating file")
	f.BoolVarP(&opts.flags.Verbose, "verbose", "v", false, "Log every pipeline stage")

	cmd.AddCommand(newLanguagesCmd(opts))
	return cmd
}

func newLanguagesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List recognized languages and their comment markers",
		Long: `Lists the language table a conversion would use, including languages and
the default marker added by --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			converterOpts, err := cfg.ConverterOptions(zap.NewNop())
			if err != nil {
				return err
			}
			languages := img2comment.NewConverter(converterOpts...).Languages()

			out := cmd.OutOrStdout()
			languages.Each(func(language, prefix string) {
				fmt.Fprintf(out, "%-8s %q\n", language, prefix)
			})
			fmt.Fprintf(out, "%-8s %q\n", "(other)", languages.DefaultMarker())
			return nil
		},
	}
}

// resolveConfig loads the config file, if any, and applies explicitly set
// flags on top of it.
func resolveConfig(fs *pflag.FlagSet, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	fl := opts.flags
	set("lang", func() { cfg.Language = fl.Language })
	set("output", func() { cfg.Output = fl.Output })
	set("out-dir", func() { cfg.OutDir = fl.OutDir })
	set("aspect", func() { cfg.AspectDivisor = fl.AspectDivisor })
	set("interp", func() { cfg.Interpolation = fl.Interpolation })
	set("default-marker", func() { cfg.DefaultMarker = fl.DefaultMarker })
	set("concurrency", func() { cfg.Concurrency = fl.Concurrency })
	set("max-pixels", func() { cfg.MaxPixels = fl.MaxPixels })
	set("auto-orient", func() { cfg.AutoOrient = fl.AutoOrient })
	set("debug-dir", func() { cfg.DebugDir = fl.DebugDir })
	set("log-file", func() { cfg.LogFile = fl.LogFile })
	set("verbose", func() { cfg.Verbose = fl.Verbose })

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, opts *options, inputs []string) error {
	cfg, err := resolveConfig(cmd.Flags(), opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	converterOpts, err := cfg.ConverterOptions(logger)
	if err != nil {
		return err
	}
	if cfg.DebugDir != "" {
		if err := os.MkdirAll(cfg.DebugDir, 0755); err != nil {
			return fmt.Errorf("failed to create debug directory: %w", err)
		}
	}
	converter := img2comment.NewConverter(converterOpts...)

	batch := len(inputs) > 1
	if batch && cfg.Output != "" {
		return fmt.Errorf("--output only applies to a single input, use --out-dir")
	}
	if err := cfg.CheckOutputs(inputs); err != nil {
		return err
	}
	if batch && cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	docs := converter.ConvertFiles(cmd.Context(), inputs, cfg.Language)
	for i, doc := range docs {
		out := cfg.OutputPath(inputs[i], batch)
		if err := writeDocument(cmd.OutOrStdout(), out, doc); err != nil {
			logger.Error("failed to write output", zap.String("path", out), zap.Error(err))
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Comment file written to %s\n", out)
		}
	}
	return nil
}

func writeDocument(stdout io.Writer, path, doc string) error {
	if path == "-" {
		_, err := fmt.Fprintln(stdout, doc)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
