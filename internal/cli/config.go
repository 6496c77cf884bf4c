package cli

import (
	"github.com/urfave/cli/v2"
)

const envPrefix = "SIMPLETEMPLATE_"

// Config holds the command line settings of a single run.
type Config struct {
	Template   string
	Data       cli.StringSlice
	Set        cli.StringSlice
	Format     string
	Output     string
	Delims     string
	Strict     bool
	Watch      bool
	ListVars   bool
	AST        bool
	Debug      bool
	LogFile    string
	LogAlsoStd bool
	EnvFile    string
}

func envVars(name string) []string {
	return []string{envPrefix + name}
}

func (c *Config) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "template",
			Aliases:     []string{"t"},
			Usage:       "Template file to render, - for stdin",
			EnvVars:     envVars("TEMPLATE"),
			Destination: &c.Template,
		},
		&cli.StringSliceFlag{
			Name:        "data",
			Aliases:     []string{"d"},
			Usage:       "(data) JSON, YAML or dotenv data file, - for stdin. Repeatable, later files override earlier keys",
			EnvVars:     envVars("DATA"),
			Destination: &c.Data,
		},
		&cli.StringSliceFlag{
			Name:        "set",
			Usage:       "(data) Set a top-level key to a string value (key=value). Applied after all data files",
			EnvVars:     envVars("SET"),
			Destination: &c.Set,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "(data) Format of data read from stdin: json, yaml or env",
			EnvVars:     envVars("FORMAT"),
			Value:       "json",
			Destination: &c.Format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write the result to this file instead of stdout. The file is replaced atomically",
			EnvVars:     envVars("OUTPUT"),
			Destination: &c.Output,
		},
		&cli.StringFlag{
			Name:        "delims",
			Usage:       "Placeholder delimiters as start,end (e.g. '<%,%>')",
			EnvVars:     envVars("DELIMS"),
			Destination: &c.Delims,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "Fail on malformed blocks and undefined variables instead of rendering them leniently",
			EnvVars:     envVars("STRICT"),
			Destination: &c.Strict,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "Re-render whenever the template or a data file changes",
			EnvVars:     envVars("WATCH"),
			Destination: &c.Watch,
		},
		&cli.BoolFlag{
			Name:        "list-vars",
			Usage:       "Print the top-level variables the template references and exit",
			Destination: &c.ListVars,
		},
		&cli.BoolFlag{
			Name:        "ast",
			Usage:       "Print the parsed template tree and exit",
			Destination: &c.AST,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "(logging) Turn on debug logs",
			EnvVars:     envVars("DEBUG"),
			Destination: &c.Debug,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "(logging) Log to file, rotated by size",
			EnvVars:     envVars("LOG_FILE"),
			Destination: &c.LogFile,
		},
		&cli.BoolFlag{
			Name:        "alsologtostderr",
			Usage:       "(logging) Log to standard error as well as file (if set)",
			EnvVars:     envVars("ALSO_LOG_TO_STDERR"),
			Destination: &c.LogAlsoStd,
		},
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "Load environment variables from this dotenv file before reading flags",
			EnvVars:     envVars("ENV_FILE"),
			Destination: &c.EnvFile,
		},
	}
}
