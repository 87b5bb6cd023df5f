package loader

import (
	"errors"
	"os"
	"routeros/internal/config"
	"routeros/internal/types"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const EnvPrefix = "ROS_"

// EnvKey returns the environment variable that carries p, e.g. ROS_HOST.
func EnvKey(p types.Param) string {
	return EnvPrefix + strings.ToUpper(string(p))
}

// ReadEnvFile reads a .env file without touching the process environment.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, types.Err(types.ErrInvalidSource, err, "env file %s", path)
	}
	return env, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

// ApplyEnv sets every parameter that has a ROS_<NAME> entry in env; the suffix is matched
// case-insensitively. Unknown ROS_ keys are errors. Nothing is written unless all entries parse.
func ApplyEnv(store *config.Store, env map[string]string) error {
	return applyEnv(store, env, false)
}

// ApplyProcessEnv is ApplyEnv for the process environment, which the client does not own:
// other tools use the ROS_ prefix too (ROS_DISTRO, ROS_VERSION), so unknown keys are
// skipped with a warning. Malformed values of known parameters are still errors.
func ApplyProcessEnv(store *config.Store, env map[string]string) error {
	return applyEnv(store, env, true)
}

type envEntry struct {
	param types.Param
	value types.Value
}

func applyEnv(store *config.Store, env map[string]string, skipUnknown bool) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		if strings.HasPrefix(k, EnvPrefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var (
		entries []envEntry
		errs    []error
	)
	for _, k := range keys {
		name := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		param, v, err := config.CheckText(name, env[k])
		if err != nil {
			if skipUnknown && errors.Is(err, types.ErrUnknownParameter) {
				log.WithField("key", k).Warn("ignoring unknown ROS_ environment variable")
				continue
			}
			errs = append(errs, err)
			continue
		}
		entries = append(entries, envEntry{param: param, value: v})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, e := range entries {
		if _, err := store.Set(e.param, e.value); err != nil {
			return err
		}
	}
	log.WithField("count", len(entries)).Debug("applied environment overrides")
	return nil
}
