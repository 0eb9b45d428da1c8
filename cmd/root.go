package cmd

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"

	"github.com/masmgr/bugspots-go/config"
	"github.com/masmgr/bugspots-go/internal/git"
	"github.com/masmgr/bugspots-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "bugspots",
		Usage:   "Bug prediction tool for Git repositories",
		Version: "2.0.0",
		Commands: []*cli.Command{
			AnalyzeCmd(),
			CommitsCmd(),
			CouplingCmd(),
			CalibrateCmd(),
			ScanCmd(),
			InspectCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch to analyze (legacy mode, default: from config or HEAD)",
			},
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "Depth of commits to analyze (legacy mode, not implemented)",
			},
			&cli.StringFlag{
				Name:    "words",
				Aliases: []string{"w"},
				Usage:   "Bugfix indicator word list, e.g., \"fixes,closed\" (legacy mode)",
			},
			&cli.StringFlag{
				Name:    "regex",
				Aliases: []string{"r"},
				Usage:   "Bugfix indicator regex pattern (legacy mode)",
			},
			&cli.BoolFlag{
				Name:  "display-timestamps",
				Usage: "Show timestamps of each identified fix commit (legacy mode)",
			},
		},
		Action: legacyAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Analyze commits since this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Analyze commits until this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to analyze",
		},
		&cli.StringFlag{
			Name:  "rename-detect",
			Usage: "Rename detection mode (auto, off, simple, aggressive)",
			Value: "simple",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top results to show",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "explain",
			Usage: "Show score breakdown",
		},
	}
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseRenameDetectFlag parses the --rename-detect flag, accepting both
// this tool's own mode names and the git-log-style aliases users expect
// ("false"/"exact"/"similarity").
func parseRenameDetectFlag(s string) (git.RenameDetectMode, error) {
	switch s {
	case "", "auto", "simple", "exact":
		return git.RenameDetectSimple, nil
	case "off", "false":
		return git.RenameDetectOff, nil
	case "aggressive", "similarity":
		return git.RenameDetectAggressive, nil
	default:
		return git.RenameDetectOff, fmt.Errorf("invalid rename-detect mode: %s (expected auto, off, simple, or aggressive)", s)
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults, then merges any
// CLI-flag-sourced overrides onto it with mergo rather than copying fields
// by hand: an override's zero-valued fields leave the loaded config alone,
// only flags the user actually set take effect.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := config.Config{
		Filters: config.FilterConfig{
			Include: c.StringSlice("include"),
			Exclude: c.StringSlice("exclude"),
		},
	}
	if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config overrides: %w", err)
	}

	return cfg, nil
}

// legacyAction handles the default (legacy) command behavior.
// When a repository path is provided as an argument, it runs the scan command.
func legacyAction(c *cli.Context) error {
	// If no args and no subcommand, show help
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}

	// Legacy mode: treat first arg as repo path and run scan
	// This maintains backward compatibility with the original bugspots CLI
	return ScanCmd().Action(c)
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
