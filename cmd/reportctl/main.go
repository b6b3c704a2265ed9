// reportctl runs report queries against the configured backend from the
// command line, without the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maktaba/internal/config"
	"maktaba/internal/export"
	"maktaba/internal/models"
	"maktaba/internal/report"
	"maktaba/internal/storage"
	"maktaba/internal/storage/fixtures"
	"maktaba/internal/storage/pg"
)

var (
	flagTitle  string
	flagReader string
	flagStatus string
	flagLevel  string
	flagFrom   string
	flagTo     string
	flagFormat string
	flagOut    string
	flagYear   int
)

var rootCmd = &cobra.Command{
	Use:           "reportctl",
	Short:         "Query and export book reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a filtered book report",
	Long: `Run a filtered report query and write it to a file.

All filters are optional; with none set, every book is exported.`,
	RunE: runExport,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the workflow status tally",
	RunE:  runStatus,
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Print the monthly status buckets for a year",
	RunE:  runMonthly,
}

func main() {
	exportCmd.Flags().StringVar(&flagTitle, "title", "", "substring match on book title")
	exportCmd.Flags().StringVar(&flagReader, "reader", "", "substring match on reader name")
	exportCmd.Flags().StringVar(&flagStatus, "status", "", "exact workflow status")
	exportCmd.Flags().StringVar(&flagLevel, "level", "", "exact book level")
	exportCmd.Flags().StringVar(&flagFrom, "from", "", "creation date lower bound (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&flagTo, "to", "", "creation date upper bound (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&flagFormat, "format", "csv", "export format (csv)")
	exportCmd.Flags().StringVar(&flagOut, "out", "", "output path (default: localized report filename)")

	monthlyCmd.Flags().IntVar(&flagYear, "year", time.Now().Year(), "target year")

	rootCmd.AddCommand(exportCmd, statusCmd, monthlyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newService builds a report service over the env-selected data source.
// The returned closer releases the backend pool, if any.
func newService(ctx context.Context) (*report.Service, func(), error) {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var books storage.DataSource[models.Book, models.BookPatch]
	closer := func() { _ = logger.Sync() }
	if cfg.UseFixtures {
		books = fixtures.NewBookSource()
	} else {
		db, err := pg.New(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		books = db.Books()
		closer = func() {
			_ = db.Close()
			_ = logger.Sync()
		}
	}
	return report.NewService(books, logger), closer, nil
}

func buildFilter() (models.ReportFilter, error) {
	f := models.ReportFilter{
		BookTitle:  flagTitle,
		ReaderName: flagReader,
		Status:     models.BookStatus(flagStatus),
		Level:      flagLevel,
	}
	if flagStatus != "" && !f.Status.Valid() {
		return f, fmt.Errorf("unknown status %q", flagStatus)
	}
	if flagFrom != "" {
		t, err := time.Parse("2006-01-02", flagFrom)
		if err != nil {
			return f, fmt.Errorf("invalid --from date: %w", err)
		}
		f.StartDate = &t
	}
	if flagTo != "" {
		t, err := time.Parse("2006-01-02", flagTo)
		if err != nil {
			return f, fmt.Errorf("invalid --to date: %w", err)
		}
		f.EndDate = &t
	}
	return f, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Reject unsupported formats before touching the backend or the
	// filesystem, so a bad --format never leaves a stray file behind.
	format := export.Format(flagFormat)
	if format != export.FormatCSV {
		return fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, format)
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	svc, closer, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closer()

	books, err := svc.FilteredBooks(ctx, filter)
	if err != nil {
		return err
	}

	out := flagOut
	if out == "" {
		out = export.Filename(format, time.Now())
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}

	if err := export.Write(file, format, books); err != nil {
		file.Close()
		os.Remove(out)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("Exported %d books to %s\n", len(books), out)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, closer, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closer()

	tally, err := svc.StatusStats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %d\n", models.StatusOnTrial.Label(), tally.OnTrial)
	fmt.Printf("%-20s %d\n", models.StatusUnderReview.Label(), tally.UnderReview)
	fmt.Printf("%-20s %d\n", models.StatusSentForApproval.Label(), tally.SentForApproval)
	if tally.Other > 0 {
		fmt.Printf("%-20s %d\n", "غير معروف", tally.Other)
	}
	fmt.Printf("%-20s %d\n", "الإجمالي", tally.Total)
	return nil
}

func runMonthly(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, closer, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closer()

	stats, err := svc.MonthlyStats(ctx, flagYear)
	if err != nil {
		return err
	}

	for _, m := range stats {
		fmt.Printf("%-10s %3d (%d/%d/%d)\n", m.Month, m.Total, m.OnTrial, m.UnderReview, m.SentForApproval)
	}
	return nil
}
