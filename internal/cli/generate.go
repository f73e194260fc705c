package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pyoutline/internal/config"
	"github.com/mvp-joe/pyoutline/internal/ignore"
	"github.com/mvp-joe/pyoutline/internal/outline"
	"github.com/mvp-joe/pyoutline/internal/parser"
	"github.com/mvp-joe/pyoutline/internal/watcher"
)

var (
	reportFileFlag string
	ignoreFileFlag string
	quietFlag      bool
	watchFlag      bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <root-folder>",
	Short: "Generate the outline report for a folder tree",
	Long: `Generate walks the given folder, extracts the structure of every Python
file (imports, functions with parameters and body variables, classes with
bases and methods), and writes the assembled outline to the report file.

Entries listed in the root's .gitignore (or an explicit --ignore-file) are
excluded from traversal and from the report.

Examples:
  # Outline the current directory into report.txt
  pyoutline generate .

  # Write the report somewhere else
  pyoutline generate ./src --report-file docs/structure.txt

  # Use a dedicated ignore file
  pyoutline generate . --ignore-file .outlineignore

  # Keep the report up to date as files change
  pyoutline generate . --watch
`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&reportFileFlag, "report-file", "o", "", "report file path (default \"report.txt\")")
	generateCmd.Flags().StringVar(&ignoreFileFlag, "ignore-file", "", "path to the ignore file (default <root>/.gitignore when present)")
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and regenerate the report")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Stopping...")
		cancel()
	}()

	rootDir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if info, err := os.Stat(rootDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", outline.ErrNotDirectory, args[0])
	}

	cfg, err := config.NewLoader(rootDir, cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	output := cfg.Report.Output
	if reportFileFlag != "" {
		output = reportFileFlag
	}

	matcher, err := buildMatcher(rootDir, cfg)
	if err != nil {
		return err
	}

	var genOpts outline.Options
	if watchFlag {
		cache, err := outline.NewFragmentCache(4096)
		if err != nil {
			return fmt.Errorf("failed to create fragment cache: %w", err)
		}
		defer cache.Close()
		genOpts.Cache = cache
	}

	totalFiles, err := outline.CountSourceFiles(rootDir, matcher)
	if err != nil {
		return err
	}
	if verbose && !quietFlag {
		log.Printf("Found %d Python file(s) under %s", totalFiles, rootDir)
	}

	reporter := NewCLIProgressReporter(quietFlag, totalFiles)
	genOpts.Progress = reporter

	gen, err := outline.New(rootDir, matcher, parser.NewPython(), genOpts)
	if err != nil {
		return err
	}

	report, err := gen.Generate()
	reporter.Finish()
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", output, err)
	}
	if !quietFlag {
		fmt.Printf("Report generated successfully to %s.\n", output)
	}

	if !watchFlag {
		return nil
	}
	return watchAndRegenerate(ctx, rootDir, output, matcher, genOpts.Cache, cfg)
}

// buildMatcher assembles the run's immutable exclusion matcher from the
// explicit ignore file, the root's default ignore file, and config patterns.
func buildMatcher(rootDir string, cfg *config.Config) (*ignore.Matcher, error) {
	var patterns []string
	ignoreName := cfg.Paths.IgnoreFile

	if ignoreFileFlag != "" {
		// An explicitly supplied ignore file must exist.
		loaded, err := ignore.LoadPatterns(ignoreFileFlag)
		if err != nil {
			return nil, err
		}
		patterns = loaded
		ignoreName = filepath.Base(ignoreFileFlag)
	} else {
		loaded, err := ignore.LoadPatterns(filepath.Join(rootDir, cfg.Paths.IgnoreFile))
		switch {
		case err == nil:
			patterns = loaded
		case errors.Is(err, ignore.ErrIgnoreFileNotFound):
			// No ignore file in the root: empty pattern set.
		default:
			return nil, err
		}
	}

	patterns = append(patterns, cfg.Paths.Ignore...)
	return ignore.NewMatcher(ignoreName, patterns)
}

// watchAndRegenerate blocks, rebuilding the whole report each time source
// changes settle. The fragment cache keeps regenerations cheap: only files
// whose mtime or size moved get reparsed.
func watchAndRegenerate(ctx context.Context, rootDir, output string, matcher *ignore.Matcher, cache *outline.FragmentCache, cfg *config.Config) error {
	regen, err := outline.New(rootDir, matcher, parser.NewPython(), outline.Options{Cache: cache})
	if err != nil {
		return err
	}

	absOutput, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(rootDir, matcher, []string{absOutput}, debounce, func(changed []string) {
		report, err := regen.Generate()
		if err != nil {
			log.Printf("Error regenerating report: %v", err)
			return
		}
		if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
			log.Printf("Error writing report to %s: %v", output, err)
			return
		}
		if !quietFlag {
			log.Printf("Report updated after changes to %d file(s)", len(changed))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}
	defer w.Stop()

	if !quietFlag {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}
	w.Start(ctx)
	<-ctx.Done()
	return nil
}
