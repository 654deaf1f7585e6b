package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/sigil/internal/config"
	"github.com/rzbill/sigil/pkg/cache"
	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/cli/format"
	"github.com/rzbill/sigil/pkg/engine"
	"github.com/rzbill/sigil/pkg/log"
	"github.com/rzbill/sigil/pkg/report"
)

var (
	strict        bool
	quiet         bool
	recursive     bool
	exitOnFail    bool
	outputFormat  string
	contextLines  int
	expandContext bool
	workers       int
	useCache      bool
	cacheDir      string
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [file or directory]...",
	Short: "Validate YAML manifests",
	Long: `Lint and validate Kubernetes-style YAML manifests.

Each file is split into documents, classified against the schema
catalog, validated field by field, and cross-checked against the other
documents in the same file (selectors, role references, volume mounts).

Examples:
  # Lint a single file
  sigil lint deployment.yaml

  # Lint everything under a directory
  sigil lint --recursive ./manifests/

  # Read from stdin
  cat pod.yaml | sigil lint -

  # Treat unknown fields as errors
  sigil lint --strict deployment.yaml

  # Machine-readable output for CI
  sigil lint --format json ./manifests/

  # Skip unchanged files using the report cache
  sigil lint --cache --recursive ./manifests/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("at least one file, directory, or '-' is required")
		}
		if expandContext {
			contextLines = 3
		}

		if len(args) == 1 && args[0] == "-" {
			return runLint(cmd, nil, true)
		}

		var files []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("error accessing %s: %w", arg, err)
			}
			if info.IsDir() {
				found, err := gatherYAMLFiles(arg, recursive)
				if err != nil {
					return err
				}
				files = append(files, found...)
			} else if hasYAMLExtension(arg) {
				files = append(files, arg)
			} else if !quiet {
				fmt.Printf("Skipping non-YAML file: %s\n", arg)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no YAML files found to lint")
		}
		return runLint(cmd, files, false)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&strict, "strict", false, "Treat unknown fields as errors")
	lintCmd.Flags().BoolVar(&quiet, "quiet", false, "Only show findings, no progress or success messages")
	lintCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recursively process directories")
	lintCmd.Flags().BoolVar(&exitOnFail, "exit-on-fail", false, "Stop at the first file with errors")
	lintCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (text, json)")
	lintCmd.Flags().IntVar(&contextLines, "context", 1, "Number of context lines to show around findings")
	lintCmd.Flags().BoolVar(&expandContext, "expand-context", false, "Show more context around findings (equivalent to --context=3)")
	lintCmd.Flags().IntVar(&workers, "workers", 0, "Documents validated concurrently per file (0 = config default)")
	lintCmd.Flags().BoolVar(&useCache, "cache", false, "Reuse cached reports for unchanged files")
	lintCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Report cache directory (default from config)")
}

// hasYAMLExtension checks if a file has a YAML extension
func hasYAMLExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

func gatherYAMLFiles(dir string, recurse bool) ([]string, error) {
	var files []string
	if recurse {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && hasYAMLExtension(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
		}
		return files, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && hasYAMLExtension(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// runLint validates each input as its own batch and renders the results.
func runLint(cmd *cobra.Command, files []string, stdin bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, cfg)

	logger := log.GetDefaultLogger().WithComponent("lint")
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.ParseLevel(cfg.Log.Level))
	}

	cat := catalog.Builtin()
	opts := engine.Options{
		Catalog: cat,
		Strict:  strict,
		Workers: workers,
		Logger:  logger,
	}

	var store *cache.Cache
	if useCache && !stdin {
		store, err = cache.Open(cacheDir, logger, cache.WithTTL(cfg.Cache.TTL))
		if err != nil {
			// The cache is an optimization; a broken one should not block linting.
			logger.Warn("report cache unavailable", log.Err(err))
		} else {
			defer store.Close()
		}
	}

	renderer := format.NewRenderer(os.Stdout)
	renderer.ContextLines = contextLines
	renderer.Quiet = quiet

	start := time.Now()
	reports := make(map[string]*report.Report)
	var order []string
	totalErrors, totalWarnings := 0, 0

	sources := files
	if stdin {
		sources = []string{"<stdin>"}
	}

	for _, source := range sources {
		var data []byte
		if stdin {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(source)
		}
		if err != nil {
			return fmt.Errorf("error reading %s: %w", source, err)
		}

		rep, err := lintOne(cmd, data, source, opts, store, cat)
		if err != nil {
			return err
		}

		reports[source] = rep
		order = append(order, source)
		totalErrors += rep.Summary.Errors
		totalWarnings += rep.Summary.Warnings

		if outputFormat != "json" {
			renderer.AddSource(source, data)
			renderer.Render(source, rep)
		}
		if exitOnFail && rep.HasErrors() {
			break
		}
	}

	if outputFormat == "json" {
		if err := format.RenderJSON(os.Stdout, reports, order); err != nil {
			return err
		}
	} else {
		renderer.Summary(len(order), totalErrors, totalWarnings, time.Since(start))
	}

	if totalErrors > 0 {
		// Nonzero exit for errors; warnings alone do not fail the run.
		// The summary already explained the failure.
		return fmt.Errorf("")
	}
	return nil
}

func lintOne(cmd *cobra.Command, data []byte, source string, opts engine.Options, store *cache.Cache, cat *catalog.Catalog) (*report.Report, error) {
	if store != nil {
		key := cache.Key(data, cat.Fingerprint(), opts.Strict)
		rep, ok, err := store.Get(key)
		if err != nil {
			opts.Logger.Warn("cache read failed", log.Str("source", source), log.Err(err))
		} else if ok {
			return rep, nil
		}
		rep, err = engine.RunBytes(cmd.Context(), data, source, opts)
		if err != nil {
			return nil, err
		}
		if err := store.Put(key, rep); err != nil {
			opts.Logger.Warn("failed to cache report", log.Str("source", source), log.Err(err))
		}
		return rep, nil
	}
	return engine.RunBytes(cmd.Context(), data, source, opts)
}

// applyConfig fills in flag values the user did not set explicitly.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("strict") {
		strict = cfg.Strict
	}
	if !cmd.Flags().Changed("workers") {
		workers = cfg.Workers
	}
	if !cmd.Flags().Changed("format") {
		if outputFormat == "" {
			outputFormat = cfg.Format
		}
	}
	if !cmd.Flags().Changed("cache") && cfg.Cache.Enabled {
		useCache = true
	}
	if cacheDir == "" {
		cacheDir = cfg.Cache.Dir
	}
}
