// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the command-line arguments (without the program name).
//
// Flags:
//
//	-a                   HTTP server address in format [host]:[port]
//	-grpc-address        gRPC server address in format [host]:[port]
//	-d                   database DSN
//	-driver              database driver: postgres or sqlite
//	-c/-config           JSON config file path
//	-token-sign-key      JWT verification key
//	-token-issuer        expected JWT issuer
//	-request-timeout     request timeout (e.g. "30s")
//	-clock-skew          accepted future watermark skew (e.g. "5m")
//	-tombstone-retention how long tombstones are kept (e.g. "720h")
//	-prune-interval      tombstone pruning period (e.g. "1h")
//	-server              sync server base address used by the client
//	-token               bearer token used by the client
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN, driver string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var requestTimeout, clockSkew, retention, pruneInterval time.Duration
	var adapterAddress, adapterToken string

	fs := flag.NewFlagSet("go-bankroll-sync", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&driver, "driver", "", "Database driver (postgres, sqlite)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&clockSkew, "clock-skew", 0, "Accepted future watermark skew (e.g., 5m)")
	fs.DurationVar(&retention, "tombstone-retention", 0, "Tombstone retention window (e.g., 720h)")
	fs.DurationVar(&pruneInterval, "prune-interval", 0, "Tombstone pruning interval (e.g., 1h)")
	fs.StringVar(&adapterAddress, "server", "", "Sync server base address (client)")
	fs.StringVar(&adapterToken, "token", "", "Bearer token (client)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Storage: Storage{
			DB: DB{
				DSN:    databaseDSN,
				Driver: driver,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			ClockSkewTolerance: clockSkew,
			TombstoneRetention: retention,
		},
		Workers: Workers{
			PruneInterval: pruneInterval,
		},
		Adapter: Adapter{
			HTTPAddress: adapterAddress,
			Token:       adapterToken,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on all interfaces; other hosts must be "localhost"
// or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(strings.Trim(host, "[]")) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
