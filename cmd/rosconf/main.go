package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"routeros/internal/config"
	"routeros/internal/loader"
	"routeros/internal/ports"
	"routeros/internal/types"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rosconf",
		Usage: "Resolve the RouterOS API client configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file with ROS_* variables",
				Value:   ".env",
				EnvVars: []string{"ENV_FILE"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML or JSON router config, optionally .zst compressed",
			},
			&cli.StringFlag{
				Name:  "select",
				Usage: "JMESPath expression selecting the router section in --config",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "override a parameter, name=value (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "unset",
				Usage: "delete a parameter (repeatable)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: yaml or json",
				Value: "yaml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		// Values such as passwords may contain commas.
		DisableSliceFlagSeparator: true,
		Action:                    run,
	}
}

func run(c *cli.Context) error {
	setupLogging(c.Bool("verbose"))

	store := config.NewStore()

	envFile := c.String("env-file")
	fileEnv, err := loader.ReadEnvFile(envFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.WithError(err).Infof("The %s file not found.", envFile)
	case err != nil:
		return err
	default:
		if err := loader.ApplyEnv(store, fileEnv); err != nil {
			return fmt.Errorf("env file %s: %w", envFile, err)
		}
	}

	// Process variables win over the file.
	if err := loader.ApplyProcessEnv(store, loader.Environ()); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	if path := c.String("config"); path != "" {
		if err := loader.LoadFile(store, path, c.String("select")); err != nil {
			return err
		}
	}
	for _, name := range c.StringSlice("unset") {
		if _, err := store.DeleteName(name); err != nil {
			return fmt.Errorf("unset %s: %w", name, err)
		}
	}
	for _, kv := range c.StringSlice("set") {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", kv)
		}
		if _, err := store.SetText(name, raw); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return render(c.App.Writer, store, c.String("format"))
}

// effective returns what the client would see: raw parameters plus the resolved port.
func effective(cs ports.ConfigStore) (map[string]any, error) {
	out := make(map[string]any)
	for p, v := range cs.Parameters() {
		out[string(p)] = v.Any()
	}
	port, _, err := cs.Get(types.Port)
	if err != nil {
		return nil, err
	}
	out[string(types.Port)] = port.Any()
	if _, ok := out[string(types.Pass)]; ok {
		out[string(types.Pass)] = "***"
	}
	return out, nil
}

func render(w io.Writer, cs ports.ConfigStore, format string) error {
	params, err := effective(cs)
	if err != nil {
		return err
	}
	var b []byte
	switch format {
	case "json":
		b, err = json.MarshalIndent(params, "", "  ")
		b = append(b, '\n')
	case "yaml":
		b, err = yaml.Marshal(params)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	level, err := log.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// getenv retrieves the value of the environment variable named by the key.
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
