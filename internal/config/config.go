// Package config resolves the application options from, in increasing order
// of precedence: built-in defaults, a JSON config file, command-line flags
// and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the HTTP server's listening address (ip:port).
	Port string `json:"server_address" env:"SERVER_ADDRESS"`

	// FilePath is the path to the storage file for persistent data.
	FilePath string `json:"file_storage_path" env:"FILE_STORAGE_PATH"`

	// DatabaseDSN holds the PostgreSQL connection string. It takes
	// precedence over FilePath.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// RedisAddr enables the resolve cache when set.
	RedisAddr string `json:"redis_addr" env:"REDIS_ADDR"`

	// GRPCPort enables the gRPC server when non-zero.
	GRPCPort int `json:"grpc_port" env:"GRPC_PORT"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// EnablePprof indicates whether to enable pprof for performance profiling.
	EnablePprof bool `json:"enable_pprof" env:"ENABLE_PPROF"`

	// EnableHTTPS serves HTTPS on :443 with autocert certificates for TLSHosts.
	EnableHTTPS bool     `json:"enable_https" env:"ENABLE_HTTPS"`
	TLSHosts    []string `json:"tls_hosts" env:"TLS_HOSTS" envSeparator:","`

	// Config is the path of the JSON config file.
	Config string `json:"-" env:"CONFIG"`
}

func defaults() *Options {
	return &Options{
		Port:     "localhost:8080",
		LogLevel: "info",
	}
}

func newFlagSet(o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("shortener", flag.ContinueOnError)
	fs.StringVar(&o.Port, "a", o.Port, "run on ip:port server")
	fs.StringVar(&o.FilePath, "f", o.FilePath, "path to storage file")
	fs.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "db address")
	fs.StringVar(&o.RedisAddr, "r", o.RedisAddr, "redis address for the resolve cache")
	fs.IntVar(&o.GRPCPort, "g", o.GRPCPort, "grpc port, 0 disables grpc")
	fs.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	fs.BoolVar(&o.EnablePprof, "p", o.EnablePprof, "enable pprof")
	fs.BoolVar(&o.EnableHTTPS, "s", o.EnableHTTPS, "enable https")
	fs.StringVar(&o.Config, "c", o.Config, "path to JSON config file")
	return fs
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs is Parse for an explicit argument list.
func ParseArgs(args []string) (*Options, error) {
	opts := defaults()
	if err := newFlagSet(opts).Parse(args); err != nil {
		return nil, err
	}

	path := opts.Config
	if v, ok := os.LookupEnv("CONFIG"); ok {
		path = v
	}

	if path != "" {
		// Re-apply the flags on top of the file so they keep precedence.
		fromFile := defaults()
		if err := loadFile(path, fromFile); err != nil {
			return nil, err
		}
		if err := newFlagSet(fromFile).Parse(args); err != nil {
			return nil, err
		}
		fromFile.Config = path
		opts = fromFile
	}

	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	return opts, nil
}

func loadFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}
