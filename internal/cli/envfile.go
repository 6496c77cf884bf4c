package cli

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// findEnvFile scans raw arguments for --env-file. Flag values bound to
// environment variables are resolved while flags are parsed, so the file has
// to be loaded before the app runs.
func findEnvFile(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		for _, flagName := range []string{"--env-file", "-env-file"} {
			if flagName == arg {
				if len(args) > i+1 {
					return args[i+1]
				}
			} else if strings.HasPrefix(arg, flagName+"=") {
				return arg[len(flagName)+1:]
			}
		}
	}
	return os.Getenv(envPrefix + "ENV_FILE")
}

// LoadEnvFile loads the dotenv file named by --env-file or
// SIMPLETEMPLATE_ENV_FILE into the process environment. Variables that are
// already set keep their value.
func LoadEnvFile(args []string) error {
	path := findEnvFile(args)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}
