package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/report"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	printer    *report.Printer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// HTTPClient stays nil by default so each command can build a client
// with the configured timeout; tests inject one to stub transport.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		printer:    report.New(),
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		publishCommand(r),
		draftsCommand(r),
		relatedCommand(r),
		configCommand(r),
	}
}

// resolveConfig returns the effective configuration for a command,
// preferring an explicit --config path over the Runner's config.
func (r *Runner) resolveConfig(cmd *cli.Command) *shared.Config {
	if path := cmd.String("config"); path != "" {
		config, err := shared.LoadConfig(path)
		if err == nil {
			return config
		}
		r.logger.Warn("falling back to defaults", "config", path, "error", err)
	}
	if r.config != nil {
		return r.config
	}
	return shared.DefaultConfig()
}

// newClient builds a DataCite client from flags merged over config.
// Credentials may come from --auth or the [auth] config table.
func (r *Runner) newClient(cmd *cli.Command, config *shared.Config) (*datacite.Client, error) {
	auth := cmd.String("auth")
	if auth == "" && config.Auth.RepoID != "" {
		auth = config.Auth.RepoID + ":" + config.Auth.Password
	}
	repoID, password, err := shared.ParseAuth(auth)
	if err != nil {
		return nil, err
	}

	apiURL := cmd.String("api-url")
	if apiURL == "" {
		apiURL = config.API.URL
	}

	userAgent := cmd.String("user-agent")
	if userAgent == "" {
		userAgent = os.Getenv("DATACITE_USER_AGENT")
	}
	if userAgent == "" {
		userAgent = config.API.UserAgent
	}

	timeout := int(cmd.Int("timeout"))
	if timeout <= 0 {
		timeout = config.API.TimeoutSeconds
	}

	return datacite.NewClient(datacite.ClientOpts{
		BaseURL:    apiURL,
		RepoID:     repoID,
		Password:   password,
		UserAgent:  userAgent,
		DryRun:     cmd.Bool("dry-run"),
		Timeout:    time.Duration(timeout) * time.Second,
		RateLimit:  config.API.RateLimit,
		HTTPClient: r.httpClient,
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
