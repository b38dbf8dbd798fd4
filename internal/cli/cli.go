package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/passorder/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes.
const (
	ExitFailure = 1 // resolution or execution failed
	ExitUsage   = 2 // bad flags, arguments or configuration
)

// Command is the action the user asked for.
type Command string

const (
	CommandPlan     Command = "plan"
	CommandValidate Command = "validate"
	CommandRun      Command = "run"
)

const envPrefix = "PASSORDER"

// Parse processes command-line arguments. It returns the chosen command and
// a populated Config, a boolean indicating if the program should exit
// cleanly (help was shown), or an ExitError.
func Parse(args []string, output io.Writer) (Command, *app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	v := viper.New()
	var (
		chosen Command
		config *app.Config
	)

	root := &cobra.Command{
		Use:   "passorder",
		Short: "Resolve the execution order of plugin passes",
		Long: `passorder loads plugin manifests (HCL or YAML), resolves the ordering
constraints between their passes and prints, validates or runs the plan.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v)
		},
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (yaml, json or toml)")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	_ = v.BindPFlags(flags)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	capture := func(c Command) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, paths []string) error {
			cfg, err := buildConfig(v, paths)
			if err != nil {
				return err
			}
			chosen, config = c, cfg
			return nil
		}
	}

	planCmd := &cobra.Command{
		Use:   "plan [paths...]",
		Short: "Print the resolved pass order",
		RunE:  capture(CommandPlan),
	}
	planCmd.Flags().StringP("output", "o", "text", "Plan format. Options: 'text', 'json' or 'yaml'.")
	_ = v.BindPFlag("output", planCmd.Flags().Lookup("output"))

	root.AddCommand(
		planCmd,
		&cobra.Command{
			Use:   "validate [paths...]",
			Short: "Resolve the manifests and report dropped advisory constraints",
			RunE:  capture(CommandValidate),
		},
		&cobra.Command{
			Use:   "run [paths...]",
			Short: "Resolve the manifests and run every pass in order",
			RunE:  capture(CommandRun),
		},
	)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return "", nil, false, exitErr
		}
		return "", nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	if config == nil {
		slog.Debug("No command ran, help was printed.")
		return "", nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "command", chosen, "config", config)
	return chosen, config, false, nil
}

func readConfigFile(v *viper.Viper) error {
	file := v.GetString("config")
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("failed to read config file: %v", err)}
	}
	slog.Debug("Config file loaded.", "file", v.ConfigFileUsed())
	return nil
}

// buildConfig merges positional paths with the flag, env and file settings.
// Positional paths replace any configured ones.
func buildConfig(v *viper.Viper, paths []string) (*app.Config, error) {
	if len(paths) == 0 {
		paths = v.GetStringSlice("paths")
	}

	cfg, err := app.NewConfig(app.Config{
		Paths:        paths,
		LogLevel:     strings.ToLower(v.GetString("log-level")),
		LogFormat:    strings.ToLower(v.GetString("log-format")),
		OutputFormat: strings.ToLower(v.GetString("output")),
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return cfg, nil
}
