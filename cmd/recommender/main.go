package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/task-recommender/internal/models"
	"github.com/noah-isme/task-recommender/internal/repository"
	"github.com/noah-isme/task-recommender/internal/service"
	"github.com/noah-isme/task-recommender/pkg/config"
	"github.com/noah-isme/task-recommender/pkg/database"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
	"github.com/noah-isme/task-recommender/pkg/logger"
	"github.com/noah-isme/task-recommender/pkg/storage"
)

const defaultLogFile = "logs/system.log"

type options struct {
	studentID  int64
	mode       string
	exportPath string
	pdf        bool
	initSchema bool
	seedDemo   bool
	timeout    time.Duration
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	in := bufio.NewReader(stdin)
	if opts.studentID <= 0 {
		if opts.studentID, err = promptStudentID(in, stdout); err != nil {
			return err
		}
	}
	if opts.mode == "" {
		opts.mode = promptMode(in, stdout)
	}
	mode, err := models.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	logr.Info("recommender run started", zap.Int64("student_id", opts.studentID), zap.String("mode", string(mode)))

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if opts.initSchema || opts.seedDemo {
		if err := database.ApplySchema(ctx, db); err != nil {
			return err
		}
	}
	if opts.seedDemo {
		if err := database.SeedDemo(ctx, db); err != nil {
			return err
		}
	}

	catalog := repository.NewCatalogRepository(db)

	report, err := service.NewValidationService(catalog, validator.New(), logr).RunAll(ctx)
	if err != nil {
		logr.Warn("catalog validation could not run", zap.Error(err))
	} else if !report.OK() {
		fmt.Fprintf(stdout, "catalog validation found %d issue(s), see log\n", len(report.Issues))
	}

	recommender := service.NewRecommendationService(catalog, nil, nil, logr, service.RecommendationServiceConfig{
		ProgressThreshold: cfg.Recommender.ProgressThreshold,
		Neighbors:         cfg.Recommender.Neighbors,
	})
	recs, err := recommender.Recommend(ctx, opts.studentID, mode)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnknownStudent) {
			fmt.Fprintf(stdout, "student %d not found\n", opts.studentID)
		}
		return err
	}
	logr.Info("recommendations ready", zap.Int64("student_id", opts.studentID), zap.String("mode", string(mode)), zap.Int("count", len(recs)))

	fmt.Fprintf(stdout, "\n%s recommendations for student %d:\n", mode, opts.studentID)
	if len(recs) == 0 {
		fmt.Fprintln(stdout, "no recommendations")
		return nil
	}
	if err := printTable(stdout, recs); err != nil {
		return err
	}

	if opts.exportPath == "" {
		return nil
	}
	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return err
	}
	formats := []models.ExportFormat{models.ExportCSV, models.ExportMarkdown}
	if opts.pdf {
		formats = append(formats, models.ExportPDF)
	}
	exporter := service.NewExportService(store, logr, nil, nil, nil)
	paths, err := exporter.WriteReports(opts.exportPath, service.ExportRequest{StudentID: opts.studentID, Mode: mode, Recommendations: recs}, formats...)
	if err != nil {
		logr.Error("export failed", zap.String("path", opts.exportPath), zap.Error(err))
		return fmt.Errorf("export recommendations: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "saved %s\n", p)
	}
	return nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("recommender", flag.ContinueOnError)
	fs.Int64Var(&opts.studentID, "student-id", 0, "Student ID (prompted when omitted)")
	fs.StringVar(&opts.mode, "mode", "", "content | collab | hybrid (prompted when omitted)")
	fs.StringVar(&opts.exportPath, "export-path", "", "Write recommendations to this CSV path plus a Markdown report next to it")
	fs.BoolVar(&opts.pdf, "pdf", false, "Also write a PDF report next to the CSV")
	fs.BoolVar(&opts.initSchema, "init-schema", false, "Create catalog tables if missing")
	fs.BoolVar(&opts.seedDemo, "seed-demo", false, "Create tables and load the sample catalog into an empty database")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall run timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.timeout <= 0 {
		opts.timeout = 30 * time.Second
	}
	return opts, nil
}

func promptStudentID(in *bufio.Reader, out io.Writer) (int64, error) {
	fmt.Fprint(out, "Student ID: ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read student id: %w", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("student id must be a positive integer, got %q", strings.TrimSpace(line))
	}
	return id, nil
}

func promptMode(in *bufio.Reader, out io.Writer) string {
	fmt.Fprintln(out, "Recommendation type:")
	fmt.Fprintln(out, "1. Content-based")
	fmt.Fprintln(out, "2. Collaborative filtering")
	fmt.Fprintln(out, "3. Hybrid")
	fmt.Fprint(out, "Choice (1/2/3): ")
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func printTable(out io.Writer, recs []models.Recommendation) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTHEME\tCOMPLEXITY\tDESCRIPTION\tEXPLANATION\tSOURCE")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", r.ID, r.ThemeName, r.Complexity, r.Description, r.Explanation, r.Source)
	}
	return w.Flush()
}
