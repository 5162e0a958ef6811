// Package config loads the TOML tunables for an arq endpoint.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config mirrors the session tunables spec §6 exposes through
// Session.NoDelay/SetWindowSize/SetMTU, plus the transport-level
// addresses cmd/arqecho needs to bind or dial.
type Config struct {
	Listen        string `toml:"listen"`
	Remote        string `toml:"remote"`
	MetricsListen string `toml:"metrics_listen"`

	MTU    int  `toml:"mtu"`
	Stream bool `toml:"stream"`

	NoDelay struct {
		Enabled  bool `toml:"enabled"`
		Interval int  `toml:"interval_ms"`
		Resend   int  `toml:"resend"`
		NoCwnd   bool `toml:"no_cwnd"`
	} `toml:"nodelay"`

	Window struct {
		Send int `toml:"send"`
		Recv int `toml:"recv"`
	} `toml:"window"`

	Log struct {
		Mask int `toml:"mask"`
	} `toml:"log"`
}

// Default returns the demo's baseline tunables, so a config file only
// needs to override what it wants to change. MTU matches what arq.New
// applies; the 40ms flush interval and the 128-segment send/receive
// windows differ from arq.New's 100ms and 32/32.
func Default() Config {
	var c Config
	c.MTU = 1400
	c.NoDelay.Interval = 40
	c.Window.Send = 128
	c.Window.Recv = 128
	return c
}

// Load reads and decodes a TOML config file at fpath, starting from
// Default and overwriting whatever the file specifies.
func Load(fpath string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(fpath, &conf); err != nil {
		return nil, errors.Wrap(err, "toml.DecodeFile")
	}
	return &conf, nil
}

// NoDelayArgs converts the [nodelay] table into the four positional
// arguments Session.NoDelay expects. An unset (zero or negative) interval
// or resend is mapped to -1 (leave unchanged) per that method's contract;
// enabled and no_cwnd always map to 0 or 1.
func (c *Config) NoDelayArgs() (nodelay, interval, resend, nc int) {
	nodelay = 0
	if c.NoDelay.Enabled {
		nodelay = 1
	}
	interval = c.NoDelay.Interval
	if interval <= 0 {
		interval = -1
	}
	resend = c.NoDelay.Resend
	if resend <= 0 {
		resend = -1
	}
	nc = 0
	if c.NoDelay.NoCwnd {
		nc = 1
	}
	return nodelay, interval, resend, nc
}
