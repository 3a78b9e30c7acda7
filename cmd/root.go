// ABOUTME: Root command for the rev CLI
// ABOUTME: Handles global flags, configuration and wiring of session and API client

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/cache"
	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/config"
	"github.com/chikadol/rev-frontend-sub000/internal/logger"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
	"github.com/chikadol/rev-frontend-sub000/internal/session"
	"github.com/chikadol/rev-frontend-sub000/internal/tokenstore"
)

var (
	apiURL     string
	jsonOutput bool
	debugLog   bool
	configDir  string
)

// Exit codes shared by every command
const (
	exitOK            = 0
	exitFailed        = 1
	exitError         = 2
	exitLoginRequired = 3
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "rev",
	Short: "Terminal client for the RE-V community and ticketing platform",
	Long: `rev is a command-line and terminal UI client for RE-V: idol boards and
threads, comments, notifications, performances, tickets and payments.

Exit codes:
  0 - Success
  1 - The operation ran but was rejected (bad credentials, failed payment)
  2 - Error (connectivity, validation, not found)
  3 - Login required or session expired

Environment Variables:
  REV_API_URL        Backend API URL (default: http://localhost:8080)
  REV_CONFIG_DIR     Directory for tokens.json and config.yaml
  REV_TIMEOUT        Per-request timeout in seconds (default: 30)
  REV_CACHE_TTL      Catalogue cache TTL in seconds, 0 disables (default: 60)
  REV_CRAWL_TIMEOUT  Admin crawl timeout in seconds (default: 120)
  LOG_LEVEL          debug, info, warn or error (default: info)
  LOG_FORMAT         text or json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides REV_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log API requests to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding tokens and config.yaml (overrides REV_CONFIG_DIR)")
}

// GetAPIURL returns the API URL from flag, env, config file, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/")
	}
	cfg, err := config.LoadDir(configDir)
	if err != nil {
		if envURL := os.Getenv("REV_API_URL"); envURL != "" {
			return envURL
		}
		return config.DefaultAPIURL
	}
	return cfg.APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appEnv is everything a command needs to talk to the backend
type appEnv struct {
	cfg     *config.Config
	api     *client.Client
	tokens  *session.Tokens
	session *session.Store
	cache   *cache.Cache
}

// logOpener builds the logger for an environment
type logOpener func(cfg *config.Config, level string) (*slog.Logger, error)

// stderrLog logs to stderr and installs the logger as the slog default
func stderrLog(cfg *config.Config, level string) (*slog.Logger, error) {
	return logger.Init(level, cfg.LogFormat), nil
}

// newEnv loads configuration and wires tokens, client and session
func newEnv() (*appEnv, error) {
	return newEnvWithLog(stderrLog)
}

func newEnvWithLog(open logOpener) (*appEnv, error) {
	cfg, err := config.LoadDir(configDir)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	level := cfg.LogLevel
	if debugLog {
		level = "debug"
	}
	log, err := open(cfg, level)
	if err != nil {
		return nil, err
	}

	tokens := session.NewTokens(tokenstore.NewFile(cfg.ConfigDir))
	opts := []client.Option{
		client.WithTokenSource(tokens),
		client.WithTimeout(cfg.RequestTimeout()),
		client.WithLogger(log),
	}

	var rc *cache.Cache
	if cfg.CacheTTL > 0 {
		rc = cache.New(cfg.CacheDuration())
		opts = append(opts, client.WithCache(rc))
	}

	api := client.New(cfg.APIURL, opts...)
	return &appEnv{
		cfg:     cfg,
		api:     api,
		tokens:  tokens,
		session: session.New(tokens, api, session.WithLogger(log), session.WithOnLogout(api.ResetCache)),
		cache:   rc,
	}, nil
}

// Close stops background work
func (e *appEnv) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// withEnv builds the environment, runs fn and tears it down
func withEnv(w io.Writer, fn func(env *appEnv) int) int {
	env, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer env.Close()
	return fn(env)
}

// fail reports err and picks the exit code. Unauthorized responses clear
// the stored session.
func (e *appEnv) fail(w io.Writer, err error) int {
	if (pages.AuthPolicy{Session: e.session}).HandleError(err) == pages.OutcomeLoginRequired {
		fmt.Fprintln(w, "Error: not logged in or session expired. Run 'rev login' first.")
		return exitLoginRequired
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

// requireLogin stops early, without a network call, when no token is stored
func (e *appEnv) requireLogin(w io.Writer) bool {
	if e.tokens.Present() {
		return true
	}
	fmt.Fprintln(w, "Error: not logged in. Run 'rev login' first.")
	return false
}

// requireAdmin resolves the session and checks for the ADMIN role
func (e *appEnv) requireAdmin(ctx context.Context, w io.Writer) int {
	if !e.requireLogin(w) {
		return exitLoginRequired
	}
	snap := e.session.Initialize(ctx)
	if !snap.IsAuthenticated {
		fmt.Fprintln(w, "Error: session expired. Run 'rev login' first.")
		return exitLoginRequired
	}
	if !snap.User.IsAdmin() {
		fmt.Fprintln(w, "Error: this command requires the ADMIN role")
		return exitError
	}
	return exitOK
}

// printOutput writes v as JSON when --json is set, otherwise human()
func printOutput(w io.Writer, v any, human func() string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, human())
}

// runCommand adapts a runX function to cobra, exiting with its code
func runCommand(run func(ctx context.Context, w io.Writer, args []string) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := run(ctx, os.Stdout, args)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}
