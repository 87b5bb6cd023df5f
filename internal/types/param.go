package types

// Param names a single configuration parameter of the RouterOS API client.
// The set is closed: only the constants below are accepted by the store.
type Param string

const (
	Host     Param = "host"
	User     Param = "user"
	Pass     Param = "pass"
	Port     Param = "port"
	SSL      Param = "ssl"
	Legacy   Param = "legacy"
	Timeout  Param = "timeout"
	Attempts Param = "attempts"
	Delay    Param = "delay"
)

// Client defaults. Timeout and Delay are in seconds.
const (
	DefaultLegacy   = false
	DefaultSSL      = false
	DefaultTimeout  = 10
	DefaultAttempts = 10
	DefaultDelay    = 1

	PortPlain = 8728
	PortSSL   = 8729
)

// allowList keeps the declaration order, which is also the order used in error messages.
var allowList = []struct {
	param Param
	kind  Kind
}{
	{Host, KindString},
	{User, KindString},
	{Pass, KindString},
	{Port, KindInt},
	{SSL, KindBool},
	{Legacy, KindBool},
	{Timeout, KindInt},
	{Attempts, KindInt},
	{Delay, KindInt},
}

var kinds map[Param]Kind

func init() {
	kinds = make(map[Param]Kind, len(allowList))
	for _, a := range allowList {
		kinds[a.param] = a.kind
	}
}

// AllowList returns every allowed parameter in declaration order.
func AllowList() []Param {
	out := make([]Param, 0, len(allowList))
	for _, a := range allowList {
		out = append(out, a.param)
	}
	return out
}

func AllowedNames() []string {
	out := make([]string, 0, len(allowList))
	for _, a := range allowList {
		out = append(out, string(a.param))
	}
	return out
}

// ParseParam validates a dynamic name against the allow-list.
func ParseParam(name string) (Param, error) {
	p := Param(name)
	if !p.Valid() {
		return "", unknownParameter(name)
	}
	return p, nil
}

func (p Param) Valid() bool {
	_, ok := kinds[p]
	return ok
}

// Kind returns the declared value type, or KindInvalid for names outside the allow-list.
func (p Param) Kind() Kind {
	return kinds[p]
}

// Check returns an UnknownParameterError if p is not allow-listed.
func (p Param) Check() error {
	if !p.Valid() {
		return unknownParameter(string(p))
	}
	return nil
}

// Defaults returns the parameters a new store is seeded with. Port has no stored default.
func Defaults() map[Param]Value {
	return map[Param]Value{
		Legacy:   Bool(DefaultLegacy),
		SSL:      Bool(DefaultSSL),
		Timeout:  Int(DefaultTimeout),
		Attempts: Int(DefaultAttempts),
		Delay:    Int(DefaultDelay),
	}
}
