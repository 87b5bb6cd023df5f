package config

import (
	"maps"
	"routeros/internal/ports"
	"routeros/internal/types"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const redacted = "***"

var _ ports.ConfigStore = (*Store)(nil)

// Store holds the client's connection parameters. Only allow-listed names with the declared
// kind ever enter the map; the port is never stored implicitly, it is derived on read.
// A Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	params map[types.Param]types.Value
}

// NewStore returns a store seeded with the client defaults for legacy, ssl, timeout, attempts
// and delay.
func NewStore() *Store {
	return &Store{params: types.Defaults()}
}

// Set stores value under param. It returns the store so calls can be chained.
func (s *Store) Set(param types.Param, value types.Value) (*Store, error) {
	if err := param.Check(); err != nil {
		return s, err
	}
	if value.Kind() != param.Kind() {
		got := value.Kind().String()
		if !value.IsValid() {
			got = "NULL"
		}
		return s, &types.TypeMismatchError{Name: string(param), Got: got, Want: param.Kind().String()}
	}

	s.mu.Lock()
	s.params[param] = value
	s.mu.Unlock()

	logValue := value.String()
	if param == types.Pass {
		logValue = redacted
	}
	log.WithFields(log.Fields{
		"param": param,
		"kind":  value.Kind(),
		"value": logValue,
	}).Debug("config parameter set")
	return s, nil
}

// SetAny is the dynamic entry point for values decoded from documents.
func (s *Store) SetAny(name string, value any) (*Store, error) {
	param, v, err := CheckAny(name, value)
	if err != nil {
		return s, err
	}
	return s.Set(param, v)
}

// SetText parses raw according to the declared kind of name, as for environment variables.
func (s *Store) SetText(name, raw string) (*Store, error) {
	param, v, err := CheckText(name, raw)
	if err != nil {
		return s, err
	}
	return s.Set(param, v)
}

// CheckAny validates what SetAny would store without touching any store.
func CheckAny(name string, value any) (types.Param, types.Value, error) {
	param, err := types.ParseParam(name)
	if err != nil {
		return "", types.Value{}, err
	}
	v, ok := types.ValueOf(value)
	if !ok || v.Kind() != param.Kind() {
		return "", types.Value{}, &types.TypeMismatchError{Name: name, Got: types.TypeName(value), Want: param.Kind().String()}
	}
	return param, v, nil
}

// CheckText validates what SetText would store without touching any store.
func CheckText(name, raw string) (types.Param, types.Value, error) {
	param, err := types.ParseParam(name)
	if err != nil {
		return "", types.Value{}, err
	}
	v, err := types.ParseText(param.Kind(), raw)
	if err != nil {
		// Text that does not parse is still a string.
		return "", types.Value{}, types.Err(
			&types.TypeMismatchError{Name: name, Got: types.KindString.String(), Want: param.Kind().String()},
			err, "")
	}
	return param, v, nil
}

// Delete removes param. Defaults are not restored: a deleted parameter reads as absent,
// except the port which falls back to derivation.
func (s *Store) Delete(param types.Param) (*Store, error) {
	if err := param.Check(); err != nil {
		return s, err
	}
	s.mu.Lock()
	delete(s.params, param)
	s.mu.Unlock()

	log.WithField("param", param).Debug("config parameter deleted")
	return s, nil
}

func (s *Store) DeleteName(name string) (*Store, error) {
	param, err := types.ParseParam(name)
	if err != nil {
		return s, err
	}
	return s.Delete(param)
}

// Get returns the value of param. When the port has not been set it is computed from the
// current ssl value on every call and not written back.
func (s *Store) Get(param types.Param) (types.Value, bool, error) {
	if err := param.Check(); err != nil {
		return types.Value{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if param == types.Port {
		if _, ok := s.params[types.Port]; !ok {
			return types.Int(s.derivedPort()), true, nil
		}
	}
	v, ok := s.params[param]
	return v, ok, nil
}

func (s *Store) GetName(name string) (types.Value, bool, error) {
	param, err := types.ParseParam(name)
	if err != nil {
		return types.Value{}, false, err
	}
	return s.Get(param)
}

// derivedPort must be called with the lock held.
func (s *Store) derivedPort() int {
	if v, ok := s.params[types.SSL]; ok && v.AsBool() {
		return types.PortSSL
	}
	return types.PortPlain
}

// Parameters returns a copy of what is stored. The derived port is not included.
func (s *Store) Parameters() map[types.Param]types.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.params)
}

// Settings resolves every parameter into a typed snapshot.
func (s *Store) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	port := s.derivedPort()
	if v, ok := s.params[types.Port]; ok {
		port = v.AsInt()
	}
	return types.Settings{
		Host:     s.params[types.Host].AsString(),
		User:     s.params[types.User].AsString(),
		Pass:     s.params[types.Pass].AsString(),
		Port:     port,
		SSL:      s.params[types.SSL].AsBool(),
		Legacy:   s.params[types.Legacy].AsBool(),
		Timeout:  time.Duration(s.params[types.Timeout].AsInt()) * time.Second,
		Attempts: s.params[types.Attempts].AsInt(),
		Delay:    time.Duration(s.params[types.Delay].AsInt()) * time.Second,
	}
}
