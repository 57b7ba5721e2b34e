// Package main provides the CLI entrypoint for termplot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/termplot/internal/browse"
	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/config"
	"github.com/verte-zerg/termplot/internal/dataset"
	"github.com/verte-zerg/termplot/internal/generator"
	"github.com/verte-zerg/termplot/internal/model"
	"github.com/verte-zerg/termplot/internal/stats"
	"github.com/verte-zerg/termplot/internal/store"
	"github.com/verte-zerg/termplot/internal/terminal"
)

const (
	defaultBands      = 2
	defaultDemoPoints = 12
	defaultDemoMax    = 100
)

var (
	plotFile    string
	plotScale   []int
	plotWidth   int
	plotHeight  int
	plotBands   int
	plotPrint   bool
	plotSummary bool
	plotTick    string
	plotAxis    string
	plotMarker  string

	demoPoints int
	demoMax    int
	demoSeed   int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "termplot [label=value ...]",
		Short:         "Draw a line/point chart in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlotCmd,
	}
	addInputFlags(rootCmd)

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&plotWidth, "width", 0, "plot width in columns (default: fit terminal)")
	flags.IntVar(&plotHeight, "height", 0, "plot height in rows (default: fit terminal)")
	flags.IntVar(&plotBands, "bands", defaultBands, "bands of an automatic scale")
	flags.BoolVar(&plotPrint, "print", false, "print the chart as text instead of drawing it in place")
	flags.BoolVar(&plotSummary, "summary", false, "print a value summary under a printed chart")
	flags.StringVar(&plotTick, "tick", chart.DefaultTick, "Y axis tick glyph")
	flags.StringVar(&plotAxis, "axis", chart.DefaultAxis, "X axis line glyph")
	flags.StringVar(&plotMarker, "marker", chart.DefaultMarker, "data point marker glyph")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newBrowseCmd())

	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&plotFile, "file", "f", "", "dataset file (.toml, or one \"label value\" per line; - for stdin)")
	cmd.Flags().IntSliceVar(&plotScale, "scale", nil, "Y scale values from top to bottom (default: automatic)")
}

func runPlotCmd(cmd *cobra.Command, args []string) error {
	ds, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	return drawDataset(cmd, ds)
}

// loadInput builds a dataset from --file or positional label=value args, then applies --scale.
func loadInput(cmd *cobra.Command, args []string) (model.Dataset, error) {
	var ds model.Dataset
	switch {
	case plotFile != "" && len(args) > 0:
		return model.Dataset{}, fmt.Errorf("use either --file or label=value arguments, not both")
	case plotFile == "-":
		parsed, err := dataset.ReadLines(cmd.InOrStdin())
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		ds = parsed
	case plotFile != "":
		parsed, err := dataset.LoadFile(plotFile)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
		}
		ds = parsed
	case len(args) > 0:
		points, err := dataset.ParseArgs(args)
		if err != nil {
			return model.Dataset{}, err
		}
		ds.Points = points
	default:
		return model.Dataset{}, fmt.Errorf("no data: pass label=value arguments, --file, or run: termplot demo")
	}
	if cmd.Flags().Changed("scale") {
		ds.Scale = append(chart.Scale(nil), plotScale...)
	}
	if len(ds.Points) == 0 {
		return model.Dataset{}, chart.ErrNoPoints
	}
	return ds, nil
}

// chartConfig merges the config file into the chart flags. Flags set on the command line win.
func chartConfig(cmd *cobra.Command) (model.ChartConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.ChartConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "width", &plotWidth, fileCfg.Chart.Width)
	applyIntConfig(cmd, "height", &plotHeight, fileCfg.Chart.Height)
	applyIntConfig(cmd, "bands", &plotBands, fileCfg.Chart.Bands)
	applyStringConfig(cmd, "tick", &plotTick, fileCfg.Glyphs.Tick)
	applyStringConfig(cmd, "axis", &plotAxis, fileCfg.Glyphs.Axis)
	applyStringConfig(cmd, "marker", &plotMarker, fileCfg.Glyphs.Marker)

	cfg := model.ChartConfig{
		Width:  plotWidth,
		Height: plotHeight,
		Bands:  plotBands,
		Glyphs: chart.Glyphs{Tick: plotTick, Axis: plotAxis, Marker: plotMarker},
	}
	if err := validateChartConfig(cfg); err != nil {
		return model.ChartConfig{}, err
	}
	return cfg, nil
}

func validateChartConfig(cfg model.ChartConfig) error {
	if cfg.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	if cfg.Height < 0 {
		return fmt.Errorf("--height must be >= 0")
	}
	if cfg.Bands <= 0 {
		return fmt.Errorf("--bands must be > 0")
	}
	return nil
}

func drawDataset(cmd *cobra.Command, ds model.Dataset) error {
	cfg, err := chartConfig(cmd)
	if err != nil {
		return err
	}
	ds = applySizeFlags(cmd, ds)
	interactive := !plotPrint && terminal.IsTerminal(os.Stdin) && terminal.IsTerminal(os.Stdout)
	if cfg.Width == 0 || cfg.Height == 0 {
		totalW, totalH := terminal.Size(os.Stdout)
		fit := dataset.FitDimensions(totalW, totalH, dataset.ResolveScale(ds, cfg.Bands))
		if cfg.Width == 0 {
			cfg.Width = fit.Width
		}
		if cfg.Height == 0 {
			cfg.Height = fit.Height
		}
	}
	r, err := dataset.NewRenderer(ds, cfg)
	if err != nil {
		return fmt.Errorf("invalid chart: %w", err)
	}
	if !interactive {
		return printChart(cmd.OutOrStdout(), r, ds, plotSummary)
	}
	return showChart(r)
}

// applySizeFlags lets --width and --height given on the command line beat the size stored with ds.
func applySizeFlags(cmd *cobra.Command, ds model.Dataset) model.Dataset {
	if cmd.Flags().Changed("width") {
		ds.Width = plotWidth
	}
	if cmd.Flags().Changed("height") {
		ds.Height = plotHeight
	}
	return ds
}

func printChart(w io.Writer, r *chart.Renderer, ds model.Dataset, summary bool) error {
	grid := chart.NewGrid()
	if err := r.Render(grid); err != nil {
		return fmt.Errorf("failed to draw chart: %w", err)
	}
	if _, err := fmt.Fprintln(w, grid.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !summary {
		return nil
	}
	if err := stats.RenderSummary(w, ds); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// showChart draws r on the live terminal and blocks until q, ctrl+c or a termination signal.
func showChart(r *chart.Renderer) (err error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	session, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, rows := r.Bounds()
	session.ParkAt(rows)
	if err := r.Render(session.Surface()); err != nil {
		return fmt.Errorf("failed to draw chart: %w", err)
	}
	if _, err := terminal.WaitForExit(terminal.NewPoller(os.Stdin, sigCh)); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Draw a generated sample series",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().IntVar(&demoPoints, "points", defaultDemoPoints, "number of points")
	cmd.Flags().IntVar(&demoMax, "max", defaultDemoMax, "largest value")
	cmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (default: time based)")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	if demoPoints <= 0 {
		return fmt.Errorf("--points must be > 0")
	}
	if demoMax <= 0 {
		return fmt.Errorf("--max must be > 0")
	}
	gen := generator.New()
	if cmd.Flags().Changed("seed") {
		gen = generator.NewWithSeed(demoSeed)
	}
	ds := model.Dataset{
		Name:   "demo",
		Points: gen.Generate(demoPoints, demoMax),
		Scale:  dataset.AutoScale([]chart.DataPoint{{Value: demoMax}}, defaultBands),
	}
	return drawDataset(cmd, ds)
}

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME [label=value ...]",
		Short: "Save a dataset under a name",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSaveCmd,
	}
	addInputFlags(cmd)
	return cmd
}

func runSaveCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}
	ds, err := loadInput(cmd, args[1:])
	if err != nil {
		return err
	}
	ds.Name = name
	ds = applySizeFlags(cmd, ds)
	// Reject what could never be drawn.
	if err := validateDataset(ds); err != nil {
		return err
	}

	return withStore(func(st *store.Store) error {
		if _, err := st.SaveDataset(context.Background(), ds); err != nil {
			return fmt.Errorf("failed to save dataset: %w", err)
		}
		logErrf("Saved %s (%d points)\n", ds.Name, len(ds.Points))
		return nil
	})
}

func validateDataset(ds model.Dataset) error {
	scale := dataset.ResolveScale(ds, defaultBands)
	dims := chart.Dimensions{Width: max(ds.Width, 1), Height: max(ds.Height, 1)}
	if _, err := chart.New(ds.Points, scale, dims); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Draw a saved dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	var ds model.Dataset
	err := withStore(func(st *store.Store) error {
		loaded, err := st.GetDataset(context.Background(), args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no dataset named %q (see: termplot ls)", args[0])
			}
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		ds = loaded
		return nil
	})
	if err != nil {
		return err
	}
	// The store is closed before the wait so a long look does not hold the db.
	return drawDataset(cmd, ds)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List saved datasets",
		Args:    cobra.NoArgs,
		RunE:    runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		datasets, err := st.ListDatasets(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list datasets: %w", err)
		}
		if err := stats.RenderList(cmd.OutOrStdout(), datasets); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a saved dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemoveCmd,
	}
}

func runRemoveCmd(_ *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		if err := st.DeleteDataset(context.Background(), args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no dataset named %q", args[0])
			}
			return fmt.Errorf("failed to delete dataset: %w", err)
		}
		logErrf("Deleted %s\n", args[0])
		return nil
	})
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse saved datasets",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := chartConfig(cmd)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		m := browse.NewModel(st, cfg)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run browser: %w", err)
		}
		return nil
	})
}

func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# termplot configuration
# Uncomment a value to enable it. CLI flags override config values.

[chart]
# width = 60              # Plot width in columns (default: fit terminal)
# height = 15             # Plot height in rows (default: fit terminal)
# bands = %d               # Bands of an automatic scale

[glyphs]
# tick = %q              # Y axis tick
# axis = %q              # X axis line
# marker = %q            # Data point marker
`,
		defaultBands,
		chart.DefaultTick,
		chart.DefaultAxis,
		chart.DefaultMarker,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
