package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/nullnotice/internal/archive"
	"github.com/cleared-dev/nullnotice/internal/letter"
	"github.com/cleared-dev/nullnotice/internal/notify"
	"github.com/cleared-dev/nullnotice/internal/pipeline"
	"github.com/cleared-dev/nullnotice/internal/prompt"
	"github.com/cleared-dev/nullnotice/internal/report"
)

type runFlags struct {
	entity      int
	tone        string
	count       int
	noArchive   bool
	archiveDir  string
	dispatchLog string
	reportPath  string
}

func newRunCommand(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Generate, archive and send nullity letters",
		Long: `Reads the tab-delimited nullity file, prints the grand total, and sends a
letter for each of the first N records through the selected entity's channel.
Selections not given as flags are asked for on the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, g, f, args)
		},
	}

	cmd.Flags().IntVar(&f.entity, "entity", 0, "sending entity, 1-based position in the configured list")
	cmd.Flags().StringVar(&f.tone, "tone", "", "letter tone: informal, formal or entity (overrides config)")
	cmd.Flags().IntVar(&f.count, "count", 0, "number of records to process")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "do not archive letters to disk")
	cmd.Flags().StringVar(&f.archiveDir, "archive-dir", "", "directory for archived letters (overrides config)")
	cmd.Flags().StringVar(&f.dispatchLog, "dispatch-log", "", "CSV file to append dispatches to (overrides config)")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "write an XLSX run report to this path")

	return cmd
}

func runRun(cmd *cobra.Command, g *globalFlags, f *runFlags, args []string) error {
	cfg, log, err := g.load(cmd)
	if err != nil {
		return err
	}

	path := cfg.InputFile
	if len(args) > 0 {
		path = args[0]
	}

	gen, err := letter.NewGenerator(letter.Options{
		ContactToken: cfg.Letter.ContactToken,
		Signers:      cfg.Letter.SignerMap(),
		TemplatesDir: cfg.Letter.TemplatesDir,
	})
	if err != nil {
		return fmt.Errorf("loading letter templates: %w", err)
	}

	sel := &prompt.Fixed{Next: prompt.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())}
	if cmd.Flags().Changed("entity") {
		sel.Entity = prompt.Int(f.entity)
	}
	if cmd.Flags().Changed("count") {
		sel.Count = prompt.Int(f.count)
	}
	toneName := cfg.Letter.Tone
	if f.tone != "" {
		toneName = f.tone
	}
	if toneName != "" {
		tone, err := letter.ParseTone(toneName)
		if err != nil {
			return err
		}
		sel.Tone = prompt.Int(prompt.ToneIndex(tone))
	}

	p := &pipeline.Pipeline{
		Entities:    cfg.EntityList(),
		Generator:   gen,
		Notifiers:   notify.DefaultRegistry(cmd.OutOrStdout()),
		Selector:    sel,
		DispatchLog: cfg.DispatchLog,
		Out:         cmd.OutOrStdout(),
		Log:         log,
	}
	if f.dispatchLog != "" {
		p.DispatchLog = f.dispatchLog
	}
	if cfg.Archive.Enabled && !f.noArchive {
		dir := cfg.Archive.Dir
		if f.archiveDir != "" {
			dir = f.archiveDir
		}
		p.Archiver = archive.New(dir)
	}

	summary, err := p.Run(cmd.Context(), path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Dispatched %d letter(s), skipped %d record(s).\n",
		len(summary.Dispatches), len(summary.Skips))

	if f.reportPath != "" {
		if err := report.Write(f.reportPath, summary); err != nil {
			log.Warn("failed to write run report", "path", f.reportPath, "error", err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f.reportPath)
		}
	}
	return nil
}
