package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/assay/internal/adapter/all"
	"github.com/unbound-force/assay/internal/config"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/delta"
	"github.com/unbound-force/assay/internal/harness"
	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/report"
	"github.com/unbound-force/assay/internal/score"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:   "assay",
		Short: "Assay — spreadsheet library fidelity benchmark",
		Long: `Assay runs spreadsheet libraries against a generated fixture
corpus, scores read and write fidelity per feature on a 0-3 scale,
and diffs sealed run records to catch regressions.`,
		Version: version,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(charmlog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newGenCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newAdaptersCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runParams holds the parsed flags for the run command.
type runParams struct {
	fixtures   string
	profile    string
	out        string
	format     string
	configPath string
	configSet  bool
	adapters   []string
	skip       []string
	jobs       int
	timeout    time.Duration
	verifier   string
	failUnder  int
	stdout     io.Writer
}

// loadRunConfig resolves the layered settings. An explicitly given
// config path must exist; the default path is optional.
func loadRunConfig(path string, explicit bool) (*config.Config, error) {
	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		logger.Warn(w)
	}
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides layers set flags over the loaded config. Unset
// flags keep their zero sentinel and leave the config value alone.
func applyFlagOverrides(cfg *config.Config, p runParams) {
	if p.jobs > 0 {
		cfg.Jobs = p.jobs
	}
	if p.timeout > 0 {
		cfg.Timeout = config.Duration(p.timeout)
	}
	if p.verifier != "" {
		cfg.Verifier = p.verifier
	}
	if len(p.adapters) > 0 {
		cfg.Adapters.Include = p.adapters
	}
	if len(p.skip) > 0 {
		cfg.Adapters.Skip = p.skip
	}
}

// checkFailUnder gates CI: the run passes when at least one library
// reaches min green features in its best mode.
func checkFailUnder(sums []score.Summary, min int) error {
	if min <= 0 {
		return nil
	}
	for _, s := range sums {
		if s.BestGreen >= min {
			return nil
		}
	}
	return fmt.Errorf("no library reaches %d green feature(s)", min)
}

func writeRecordFile(path string, rec *record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create run record: %w", err)
	}
	if err := rec.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write run record: %w", err)
	}
	return f.Close()
}

// runRun is the extracted, testable body of the run command.
func runRun(ctx context.Context, p runParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := loadRunConfig(p.configPath, p.configSet)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, p)

	manifest, err := corpus.Load(p.fixtures)
	if err != nil {
		if errors.Is(err, corpus.ErrManifestMissing) {
			return fmt.Errorf("%w (generate one with 'assay gen --out %s')", err, p.fixtures)
		}
		return err
	}
	if p.profile != "" && manifest.Profile != corpus.Profile(p.profile) {
		return fmt.Errorf("corpus at %s has profile %q, not %q",
			p.fixtures, manifest.Profile, p.profile)
	}

	reg, err := all.Registry()
	if err != nil {
		return err
	}
	selected, err := reg.Select(cfg.Adapters.Include, cfg.Adapters.Skip)
	if err != nil {
		return err
	}
	verifier, ok := reg.Get(cfg.Verifier)
	if !ok {
		return fmt.Errorf("unknown verifier %q (have %v)", cfg.Verifier, reg.Names())
	}

	runner, err := harness.New(manifest, selected, verifier, harness.Options{
		Jobs:      cfg.Jobs,
		Timeout:   time.Duration(cfg.Timeout),
		Rubric:    cfg.ScoreRubric(),
		Tolerance: cfg.Compare.Tolerance,
		Tool:      record.Tool{Name: "assay", Version: version},
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	rec, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if rec.Metadata.Partial {
		logger.Warn("run interrupted, record marked partial")
	}

	if err := writeRecordFile(p.out, rec); err != nil {
		return err
	}
	logger.Info("run record written", "path", p.out, "run_id", rec.Metadata.RunID)

	opts := report.Options{Rubric: cfg.ScoreRubric(), Bands: cfg.GradeBands()}
	switch p.format {
	case "json":
		if err := rec.WriteJSON(p.stdout); err != nil {
			return err
		}
	default:
		if err := report.WriteText(p.stdout, rec, opts); err != nil {
			return err
		}
	}

	return checkFailUnder(score.Summarize(rec, cfg.ScoreRubric(), cfg.GradeBands()), p.failUnder)
}

func newRunCmd() *cobra.Command {
	var (
		fixtures   string
		profile    string
		out        string
		format     string
		configPath string
		adapters   []string
		skip       []string
		jobs       int
		timeout    time.Duration
		verifier   string
		failUnder  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the benchmark grid and persist a run record",
		Long: `Run every selected adapter against every fixture case in both
read and write mode, seal the scored results into a run record,
and print a report.

Interrupting the run with Ctrl-C still persists a record, marked
partial.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRun(ctx, runParams{
				fixtures:   fixtures,
				profile:    profile,
				out:        out,
				format:     format,
				configPath: configPath,
				configSet:  cmd.Flags().Changed("config"),
				adapters:   adapters,
				skip:       skip,
				jobs:       jobs,
				timeout:    timeout,
				verifier:   verifier,
				failUnder:  failUnder,
				stdout:     os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&fixtures, "fixtures", "fixtures",
		"fixture corpus directory")
	cmd.Flags().StringVar(&profile, "profile", "",
		"required corpus profile (default: whatever the manifest declares)")
	cmd.Flags().StringVar(&out, "out", "results.json",
		"run record output path")
	cmd.Flags().StringVar(&format, "format", "text",
		"report format: text or json")
	cmd.Flags().StringVar(&configPath, "config", "assay.yaml",
		"config file path")
	cmd.Flags().StringSliceVar(&adapters, "adapters", nil,
		"adapters to run (default: all registered)")
	cmd.Flags().StringSliceVar(&skip, "skip", nil,
		"adapters to exclude")
	cmd.Flags().IntVar(&jobs, "jobs", 0,
		"parallel invocations (0 = one per CPU)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0,
		"per-invocation timeout (0 = config or 10s)")
	cmd.Flags().StringVar(&verifier, "verifier", "",
		"trusted adapter that re-reads written workbooks")
	cmd.Flags().IntVar(&failUnder, "fail-under", 0,
		"fail unless some library reaches this many green features (0 = off)")

	return cmd
}

// genParams holds the parsed flags for the gen command.
type genParams struct {
	out     string
	profile string
	stdout  io.Writer
}

// runGen is the extracted, testable body of the gen command.
func runGen(p genParams) error {
	profile := corpus.Profile(p.profile)

	logger.Info("generating fixture corpus", "dir", p.out, "profile", p.profile)
	manifest, err := corpus.Generate(p.out, profile)
	if err != nil {
		return err
	}

	cases := 0
	for _, f := range manifest.Files {
		cases += len(f.Cases)
	}
	fmt.Fprintf(p.stdout, "generated %d fixture file(s), %d test case(s) in %s\n",
		len(manifest.Files), cases, p.out)
	return nil
}

func newGenCmd() *cobra.Command {
	var (
		out     string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the fixture corpus and its manifest",
		Long: `Build one workbook per feature with known expected values, plus
the manifest.json that binds every test case to its expectation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(genParams{
				out:     out,
				profile: profile,
				stdout:  os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "fixtures",
		"output directory for the corpus")
	cmd.Flags().StringVar(&profile, "profile", "xlsx",
		"corpus profile (only xlsx can be generated)")

	return cmd
}

// diffParams holds the parsed flags for the diff command.
type diffParams struct {
	prevPath         string
	currPath         string
	out              string
	format           string
	failOnRegression bool
	stdout           io.Writer
}

// runDiff is the extracted, testable body of the diff command.
func runDiff(p diffParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	prev, err := record.Load(p.prevPath)
	if err != nil {
		return err
	}
	curr, err := record.Load(p.currPath)
	if err != nil {
		return err
	}

	rep := delta.Compute(prev, curr)

	if p.out != "" {
		f, err := os.Create(p.out)
		if err != nil {
			return fmt.Errorf("create delta report: %w", err)
		}
		if err := rep.WriteJSON(f); err != nil {
			f.Close()
			return fmt.Errorf("write delta report: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("delta report written", "path", p.out)
	}

	switch p.format {
	case "json":
		if err := rep.WriteJSON(p.stdout); err != nil {
			return err
		}
	default:
		if err := report.WriteDeltaText(p.stdout, rep); err != nil {
			return err
		}
	}

	if p.failOnRegression && rep.Regressions > 0 {
		return fmt.Errorf("%d regression(s) since run %s", rep.Regressions, prev.Metadata.RunID)
	}
	return nil
}

func newDiffCmd() *cobra.Command {
	var (
		out              string
		format           string
		failOnRegression bool
	)

	cmd := &cobra.Command{
		Use:   "diff PREV CURR",
		Short: "Compare two run records",
		Long: `Diff two sealed run records at (library, feature, mode)
granularity and report regressions, improvements, and grid changes.
Both records are digest-verified before comparison.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(diffParams{
				prevPath:         args[0],
				currPath:         args[1],
				out:              out,
				format:           format,
				failOnRegression: failOnRegression,
				stdout:           os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "",
		"also write the delta report as JSON to this path")
	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().BoolVar(&failOnRegression, "fail-on-regression", false,
		"exit non-zero when any score regressed")

	return cmd
}

// reportParams holds the parsed flags for the report command.
type reportParams struct {
	path        string
	format      string
	out         string
	interactive bool
	stdout      io.Writer
}

// runReport is the extracted, testable body of the report command.
func runReport(p reportParams) error {
	switch p.format {
	case "text", "markdown", "csv", "json", "html":
	default:
		return fmt.Errorf("invalid format %q: must be 'text', 'markdown', 'csv', 'json', or 'html'", p.format)
	}

	rec, err := record.Load(p.path)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("run record %s: %w", p.path, err)
	}

	if p.interactive {
		return runInteractiveReport(rec, report.Options{})
	}

	w := p.stdout
	if p.out != "" {
		f, err := os.Create(p.out)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	opts := report.Options{}
	switch p.format {
	case "markdown":
		return report.WriteMarkdown(w, rec, opts)
	case "csv":
		return report.WriteCSV(w, rec)
	case "json":
		return rec.WriteJSON(w)
	case "html":
		return report.WriteHTML(w, rec, opts)
	default:
		return report.WriteText(w, rec, opts)
	}
}

func newReportCmd() *cobra.Command {
	var (
		format      string
		out         string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "report RECORD",
		Short: "Re-render a persisted run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(reportParams{
				path:        args[0],
				format:      format,
				out:         out,
				interactive: interactive,
				stdout:      os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text, markdown, csv, json, or html")
	cmd.Flags().StringVar(&out, "out", "",
		"write the report to this path instead of stdout")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing the record")

	return cmd
}

// adaptersParams holds the output writer for the adapters command.
type adaptersParams struct {
	stdout io.Writer
}

// runAdapters lists the registry with capability and format info.
func runAdapters(p adaptersParams) error {
	reg, err := all.Registry()
	if err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "%-12s %-34s %-9s %-6s %s\n",
		"NAME", "VERSION", "LANGUAGE", "CAPS", "FORMATS")
	for _, ad := range reg.All() {
		info := ad.Info()
		caps := make([]string, 0, 2)
		if ad.CanRead() {
			caps = append(caps, "R")
		}
		if ad.CanWrite() {
			caps = append(caps, "W")
		}
		fmt.Fprintf(p.stdout, "%-12s %-34s %-9s %-6s %s\n",
			info.Name, info.Version, info.Language,
			strings.Join(caps, "+"), strings.Join(ad.Formats(), ","))
	}
	return nil
}

func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the registered library adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdapters(adaptersParams{stdout: cmd.OutOrStdout()})
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for run records",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of persisted run records. Useful for validating records
or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), record.Schema)
			return err
		},
	}
}
