package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress is a host:port listen address usable as a flag.Value. An empty
// host means "all interfaces".
type NetAddress struct {
	Host string
	Port int
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("refsync", flag.ContinueOnError)

	var healthAddress NetAddress
	var serverAddress string
	var databaseDSN string
	var jsonConfigPath string
	var terminalID string
	var registrationKey string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var maxPages int

	fs.StringVar(&serverAddress, "a", "", "Server address (host:port or URL)")
	fs.Var(&healthAddress, "health-address", "Health endpoint listen address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Local database path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&terminalID, "terminal-id", "", "Terminal identifier")
	fs.StringVar(&registrationKey, "registration-key", "", "Terminal registration key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Manifest poll interval (e.g., 5m)")
	fs.IntVar(&maxPages, "max-pages", 0, "Maximum pages fetched per entity type and sync")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TerminalID:      terminalID,
			RegistrationKey: registrationKey,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Adapter: Adapter{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval: syncInterval,
			MaxPages:     maxPages,
		},
		Health:       Health{HTTPAddress: healthAddress.String()},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
