package types

import (
	"net"
	"strconv"
	"time"
)

// Settings is the typed view of a store handed to the protocol session.
// Absent string parameters are empty; Timeout and Delay are converted from seconds.
type Settings struct {
	Host     string        `json:"host" yaml:"host"`
	User     string        `json:"user" yaml:"user"`
	Pass     string        `json:"-" yaml:"-"`
	Port     int           `json:"port" yaml:"port"`
	SSL      bool          `json:"ssl" yaml:"ssl"`
	Legacy   bool          `json:"legacy" yaml:"legacy"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Attempts int           `json:"attempts" yaml:"attempts"`
	Delay    time.Duration `json:"delay" yaml:"delay"`
}

// Address joins host and port the way net.Dial expects.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
