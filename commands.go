package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soocke/crop-annotator/app"
	"github.com/soocke/crop-annotator/assets"
	"github.com/soocke/crop-annotator/config"
	"github.com/soocke/crop-annotator/domain/document"
)

type rootOptions struct {
	configPath string
	saveDir    string
	labels     []string
	logFile    string
	debug      bool
	watch      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "crop-annotator <image_dir>",
		Short: "Annotate crop stems, leaves and boxes on a directory of images",
		Long: "Opens every .jpg, .jpeg, .png and .webp image in <image_dir> and writes one JSON\n" +
			"annotation document per image into the save directory.\n\nKeys:\n" + assets.KeyHelp(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.saveDir, "save-dir", "s", "", "directory for annotation documents (default: image directory)")
	f.StringSliceVarP(&opts.labels, "labels", "l", nil, "comma separated labels, selectable with keys 1-9")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this rotated file")
	f.BoolVar(&opts.watch, "watch", false, "append images created in the directory while running")
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (.json or .toml)")
	pf.BoolVar(&opts.debug, "debug", false, "debug logging and runtime memory stats")

	cmd.AddCommand(newConvertCommand(opts), newInitConfigCommand())
	return cmd
}

// loadConfig resolves the configuration: file, then .env and environment, then flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if p, ok := config.FindDefault(); ok {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("save-dir") {
		cfg.SaveDir = opts.saveDir
	}
	if f.Changed("labels") {
		cfg.Labels = opts.labels
	}
	if f.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if f.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if f.Changed("watch") {
		cfg.Watch = opts.watch
	}
	return cfg, nil
}

func runAnnotate(cmd *cobra.Command, imageDir string, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	cfg.ImageDir = imageDir
	if err := cfg.Validate(); err != nil {
		return err
	}
	if st, err := os.Stat(cfg.ImageDir); err != nil || !st.IsDir() {
		return fmt.Errorf("image directory %q is not a readable directory", cfg.ImageDir)
	}
	logger := NewLogger(cfg.Level(), cfg.LogFile)
	slog.SetDefault(logger)
	logger.Info("starting annotator", "image_dir", cfg.ImageDir, "save_dir", cfg.SaveDir, "labels", strings.Join(cfg.Labels, ","))

	c, err := app.BuildContainer(cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	app.NewApp("Crop Annotator - "+filepath.Base(cfg.ImageDir), c).Start(ctx)
	return nil
}

func newConvertCommand(root *rootOptions) *cobra.Command {
	var saveDir string
	cmd := &cobra.Command{
		Use:   "convert-xml <input_dir>",
		Short: "Convert Pascal VOC stem annotations into annotation documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if root.debug {
				level = slog.LevelDebug
			}
			logger := NewLogger(level, "")
			dir := saveDir
			if dir == "" {
				dir = args[0]
			}
			store := document.NewStore(dir, logger)
			res, err := document.ConvertVOCDir(args[0], store, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d file(s), skipped %d, into %s\n", res.Converted, res.Skipped, store.Dir())
			return nil
		},
	}
	cmd.Flags().StringVarP(&saveDir, "save-dir", "s", "", "output directory (default: input directory)")
	return cmd
}

func newInitConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
