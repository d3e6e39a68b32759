package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/healthsync/internal/client/client"
	"github.com/dmitrijs2005/healthsync/internal/client/config"
	"github.com/spf13/cobra"
)

// App holds state shared by all commands of one invocation.
type App struct {
	getenv func(string) string
	config *config.Config
	client client.Client

	configPath       string
	serverURL        string
	storeType        string
	connectionString string
	timeout          string
}

// NewRootCommand builds the healthsync command tree. getenv is consulted
// for configuration; pass os.Getenv in production.
func NewRootCommand(getenv func(string) string) *cobra.Command {
	app := &App{getenv: getenv}

	root := &cobra.Command{
		Use:           "healthsync",
		Short:         "healthsync syncs health records with your PostgreSQL database",
		Long:          "healthsync pushes and pulls food, workout, biomarker, goal and profile records through a healthsync server to a PostgreSQL database you own.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "path to JSON config file")
	pf.StringVarP(&app.serverURL, "server", "s", "", "healthsync server base URL")
	pf.StringVar(&app.timeout, "timeout", "", "request timeout, e.g. 30s")
	pf.StringVar(&app.storeType, "type", "", "store type")
	pf.StringVar(&app.connectionString, "connection-string", "", "store connection string (prompted when empty)")

	root.AddCommand(
		app.testCommand(),
		app.pushCommand(),
		app.pullCommand(),
		app.inspectCommand(),
	)
	return root
}

func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = a.serverURL
	}
	if flags.Changed("type") {
		cfg.StoreType = a.storeType
	}
	if flags.Changed("connection-string") {
		cfg.ConnectionString = a.connectionString
	}
	if flags.Changed("timeout") {
		d, err := parseDuration(a.timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}

	a.config = cfg
	a.client = client.NewHTTPClient(cfg.ServerURL, cfg.Timeout)
	return nil
}

// connString returns the configured connection string or prompts for one.
func (a *App) connString(cmd *cobra.Command) (string, error) {
	if a.config.ConnectionString != "" {
		return a.config.ConnectionString, nil
	}
	return PromptConnectionString(cmd.ErrOrStderr())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSONFile(path string, in io.Reader, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
