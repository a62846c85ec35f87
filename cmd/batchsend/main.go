// Command batchsend dispatches one batch from the command line, using the same
// configuration and engine as the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/outreach/internal/app"
	"github.com/outreach/internal/config"
	"github.com/outreach/internal/dispatch"
	"github.com/outreach/internal/model"
)

type options struct {
	sender     string
	credential string
	fromSno    string
	toSno      string
	subject    string
	bodyFile   string
	attach     string
	directory  string
	transport  string
	workers    int
	dryRun     bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "batchsend",
		Short: "Send a personalized email to every contact in an SNo range",
		Example: `  batchsend --email me@gmail.com --from 1 --to 25 --body cover.txt --attach resume.pdf
  batchsend --email me@gmail.com --from 1 --to 25 --body cover.txt --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sender, "email", "", "Sender address")
	f.StringVar(&opts.credential, "app-key", os.Getenv("APP_KEY"), "Sender credential (defaults to $APP_KEY)")
	f.StringVar(&opts.fromSno, "from", "", "First SNo of the range (inclusive)")
	f.StringVar(&opts.toSno, "to", "", "Last SNo of the range (inclusive)")
	f.StringVar(&opts.subject, "subject", "", "Subject template; {company} is replaced per recipient")
	f.StringVar(&opts.bodyFile, "body", "", "File holding the message template, - for stdin")
	f.StringVar(&opts.attach, "attach", "", "File attached to every message")
	f.StringVar(&opts.directory, "directory", "", "Contact directory, overrides DIRECTORY_SOURCE")
	f.StringVar(&opts.transport, "transport", "", "Mail transport, overrides MAIL_TRANSPORT")
	f.IntVar(&opts.workers, "workers", 0, "Concurrent sends, overrides DISPATCH_WORKERS")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Log messages instead of sending them")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every recipient")

	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	logger := newLogger(opts.verbose)

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	a, err := app.NewWithConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}

	req, err := buildRequest(opts)
	if err != nil {
		logger.Error("invalid batch", "error", err)
		return err
	}

	report, err := a.Engine().Run(ctx, req)
	if err != nil {
		logger.Error("batch not sent", "error", err)
		return err
	}

	fmt.Println(report.Message)
	if !report.AllSucceeded() {
		return errors.New(string(report.Status))
	}
	return nil
}

// loadConfig reads the environment and lays the command line overrides on top.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	overrides := config.Config{
		DirectorySource: opts.directory,
		MailTransport:   opts.transport,
		DispatchWorkers: opts.workers,
	}
	if opts.dryRun {
		overrides.MailTransport = "log"
	}
	if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildRequest(opts *options) (model.BatchRequest, error) {
	start, end, err := dispatch.ParseRange(opts.fromSno, opts.toSno)
	if err != nil {
		return model.BatchRequest{}, err
	}

	body, err := readBody(opts.bodyFile)
	if err != nil {
		return model.BatchRequest{}, err
	}

	req := model.BatchRequest{
		Sender:          opts.sender,
		Credential:      opts.credential,
		RangeStart:      start,
		RangeEnd:        end,
		SubjectTemplate: opts.subject,
		BodyTemplate:    body,
	}

	if opts.attach != "" {
		data, err := os.ReadFile(opts.attach)
		if err != nil {
			return model.BatchRequest{}, fmt.Errorf("read attachment: %w", err)
		}
		req.Attachment = &model.Attachment{
			Filename:    filepath.Base(opts.attach),
			ContentType: http.DetectContentType(data),
			Data:        data,
		}
	}
	return req, nil
}

func readBody(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read message body: %w", err)
	}
	return string(data), nil
}

func newLogger(verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
