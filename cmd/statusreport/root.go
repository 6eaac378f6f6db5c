package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Afrawles/statusreport/internal/api/rest"
	"github.com/Afrawles/statusreport/internal/config"
	"github.com/Afrawles/statusreport/internal/statusreport"
)

var (
	configPath string
	output     string
	formats    string
	verbose    bool

	projectKey string
	reportType string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "statusreport",
	Short: "Generate project status reports from Jira",
	Long: `statusreport turns Jira work items into kickoff, progress and final
reports for monitoring deployments.`,
	SilenceUsage: true,
}

var (
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a kickoff, progress or final report for a project",
		RunE:  generateReport,
	}

	epicsCmd = &cobra.Command{
		Use:   "epics",
		Short: "Generate the epic progress report for a project",
		RunE:  generateEpics,
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Test the Jira connection",
		RunE:  checkConnection,
	}

	projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "List configured projects",
		RunE:  listProjects,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve report contexts over HTTP",
		RunE:  serve,
	}
)

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd, epicsCmd, checkCmd, projectsCmd, serveCmd)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultProjectsFile, "Projects YAML file")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output directory (default $OUTPUT_DIR or reports)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	generateCmd.Flags().StringVarP(&projectKey, "project", "p", "", "Project key (e.g. GMF, IM)")
	generateCmd.Flags().StringVarP(&reportType, "type", "t", "", "Report type: kickoff, progress, final")
	generateCmd.Flags().StringVar(&formats, "format", "", "Comma-separated output formats: html, json, md, xlsx, csv")
	_ = generateCmd.MarkFlagRequired("project")
	_ = generateCmd.MarkFlagRequired("type")

	epicsCmd.Flags().StringVarP(&projectKey, "project", "p", "", "Project key")
	_ = epicsCmd.MarkFlagRequired("project")

	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if output != "" {
		cfg.Output.Directory = output
	}
	if list := parseCommaList(formats); len(list) > 0 {
		cfg.Output.Formats = list
	}
	return cfg, nil
}

func newApp() (*statusreport.Application, *zap.Logger, error) {
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, logger, err
	}

	app, err := statusreport.NewWithJira(cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	return app, logger, nil
}

func generateReport(cmd *cobra.Command, args []string) error {
	app, logger, err := newApp()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		return err
	}

	bar := newSpinner(fmt.Sprintf("Building %s report for %s", reportType, projectKey))
	files, err := app.GenerateReport(cmd.Context(), projectKey, reportType)
	finishBar(bar)
	if err != nil {
		return err
	}

	fmt.Printf("\nReports saved to %s/\n", app.Config.Output.Directory)
	for _, f := range files {
		fmt.Printf("  -> %s\n", filepath.Base(f))
	}
	return nil
}

func generateEpics(cmd *cobra.Command, args []string) error {
	app, logger, err := newApp()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		return err
	}

	bar := newSpinner("Fetching epics")
	files, err := app.GenerateEpicReport(cmd.Context(), projectKey)
	finishBar(bar)
	if err != nil {
		return err
	}

	fmt.Printf("\nEpic report saved to %s/\n", app.Config.Output.Directory)
	for _, f := range files {
		fmt.Printf("  -> %s\n", f)
	}
	return nil
}

func checkConnection(cmd *cobra.Command, args []string) error {
	app, logger, err := newApp()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		return err
	}

	who, err := app.Check(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Connected to Jira as: %s\n", who)
	return nil
}

func listProjects(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	for _, key := range cfg.ProjectKeys() {
		p, err := cfg.Project(key)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %s\n", key, p.Name)
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	app, logger, err := newApp()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    listenAddr,
		Handler: rest.NewRouter(rest.NewHandler(app, logger)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting REST API server", zap.String("address", listenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
