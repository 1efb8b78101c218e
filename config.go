package adsmux

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrpasztoradam/adsmux/ams"
)

var validate = validator.New()

// Config configures a Client. It is validated in Dial before anything else
// happens, so a bad value fails fast instead of surfacing as a confusing
// dial or handshake error later.
//
// Config intentionally has no file/env/flag loader: per the client's scope,
// configuration sources outside the struct are out of bounds (a caller
// already has viper/cobra/whatever at the edge of their own program — this
// package just validates the struct it's handed).
type Config struct {
	// RouterAddr is the TCP/IP address of the AMS router, normally the
	// loopback address with the router's fixed port, e.g. "127.0.0.1:48898".
	RouterAddr string `validate:"required,hostname_port"`

	// LocalNetID, if set, pins the AmsNetId the router hands back during the
	// handshake to a specific value instead of accepting whatever the
	// router assigns. Leave the zero value to accept the router's choice.
	LocalNetID string `validate:"omitempty,ams_net_id"`

	// RequestTimeout bounds how long a blocking command waits for its
	// response before failing with ADSERR_CLIENT_SYNCTIMEOUT.
	RequestTimeout time.Duration `validate:"required,gt=0"`

	// ReaperInterval is how often the stale-handle reaper sweeps the
	// pending-request table.
	ReaperInterval time.Duration `validate:"required,gt=0"`

	// DialTimeout bounds the initial TCP connect and handshake.
	DialTimeout time.Duration `validate:"required,gt=0"`

	// Logger receives connection lifecycle and error log lines. A nil
	// Logger disables logging rather than panicking on first use.
	Logger *log.Logger

	// MetricsRegisterer, if non-nil, is where the client registers its
	// Prometheus collectors. Left nil, metrics are computed but never
	// exposed — every call site stays branch-free either way.
	MetricsRegisterer prometheus.Registerer
}

// DefaultConfig returns a Config with the common defaults: local loopback
// router, 5 second request timeout, and a 1 second reaper sweep.
func DefaultConfig() Config {
	return Config{
		RouterAddr:     "127.0.0.1:48898",
		RequestTimeout: 5 * time.Second,
		ReaperInterval: 1 * time.Second,
		DialTimeout:    5 * time.Second,
		Logger:         log.Default(),
	}
}

func init() {
	_ = validate.RegisterValidation("ams_net_id", func(fl validator.FieldLevel) bool {
		_, err := ams.ParseAmsNetID(fl.Field().String())
		return err == nil
	})
}

// Validate runs struct-tag validation over c.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
