/*
Mataserver starts a mata server and begins listening for new connections.

Usage:

	mataserver [flags]
	mataserver [flags] -l [[ADDRESS]:PORT]

Once started, the mata server listens for HTTP requests and responds to them
using a small REST API for storing, querying, and exporting automata. By
default it listens on localhost:8080; this can be changed with the
--listen/-l flag (or the MATASERVER_LISTEN_ADDRESS environment variable).

Before a client can create or delete automata, an operator API key must be
established. Run with --generate-api-key on first startup: this prints a
freshly generated key to stdout exactly once and starts the server using its
bcrypt hash. Save the printed key; it cannot be recovered afterward. On
subsequent startups, supply the hash that was derived from it with
--api-key-hash (or the MATASERVER_API_KEY_HASH environment variable).

If a JWT token secret is not given, one is automatically generated and seeded
from the system CSPRNG. As a consequence, in this mode of operation all
tokens are rendered invalid as soon as the server shuts down. This is
suitable for testing, but a secret must be given via flag or environment
variable for production use.

The flags are:

	-v, --version
		Give the current version of the mata server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		MATASERVER_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWTs. If there are fewer than 32
		bytes in the secret, it is repeated until it is. The maximum size is
		64 bytes. If not given, defaults to the value of environment variable
		MATASERVER_TOKEN_SECRET. If no secret is specified, a random secret is
		generated and a warning is logged.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. inmem has no further params. sqlite needs the path to a data
		directory, e.g. sqlite:path/to/db_dir. If not given, defaults to the
		value of environment variable MATASERVER_DATABASE, and if that is not
		given, defaults to an in-memory database.

	--api-key-hash HASH
		Use the given bcrypt hash as the operator API key's hash. If not
		given, defaults to the value of environment variable
		MATASERVER_API_KEY_HASH.

	--generate-api-key
		Generate a new random operator API key, print it once to stdout, and
		use its hash for this run. Mutually exclusive with --api-key-hash.
*/
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/mata/internal/version"
	"github.com/dekarrin/mata/server"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// fileConfig is the shape of an optional TOML config file, loaded via
// --config. Its values are used as a fallback for anything not set by flag
// or environment variable.
type fileConfig struct {
	Listen     string `toml:"listen"`
	Secret     string `toml:"secret"`
	DB         string `toml:"db"`
	APIKeyHash string `toml:"api_key_hash"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	_, err := toml.DecodeFile(path, &fc)
	return fc, err
}

const (
	EnvListen     = "MATASERVER_LISTEN_ADDRESS"
	EnvSecret     = "MATASERVER_TOKEN_SECRET"
	EnvDB         = "MATASERVER_DATABASE"
	EnvAPIKeyHash = "MATASERVER_API_KEY_HASH"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the mata server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagKeyHash = pflag.String("api-key-hash", "", "Use the given bcrypt hash as the operator API key's hash.")
	flagGenKey  = pflag.Bool("generate-api-key", false, "Generate a new operator API key, print it once, and use it for this run.")
	flagConfig  = pflag.String("config", "", "Load settings from the given TOML config file; flags and environment variables take priority over it.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (mata v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	fc, err := loadFileConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read config file: %s\n", err.Error())
		os.Exit(1)
	}

	var cfg server.Config

	addr := resolveFlag(*flagListen, "listen", EnvListen)
	if addr == "" {
		addr = fc.Listen
	}
	if addr != "" {
		cfg.Addr = addr
	}

	dbConnStr := resolveFlag(*flagDB, "db", EnvDB)
	if dbConnStr == "" {
		dbConnStr = fc.DB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	secret := resolveFlag(*flagSecret, "secret", EnvSecret)
	if secret == "" {
		secret = fc.Secret
	}
	cfg.TokenSecret = resolveTokenSecret(secret)

	keyHash, err := resolveAPIKeyHash(fc.APIKeyHash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}
	cfg.OperatorKeyHash = keyHash

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("INFO  Starting mata server %s...", version.ServerCurrent)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("FATAL server exited with error: %s", err.Error())
	}
}

// resolveFlag returns flagVal if the named flag was explicitly set on the
// command line, otherwise the value of the given environment variable.
func resolveFlag(flagVal string, flagName string, envName string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	return os.Getenv(envName)
}

func resolveTokenSecret(secStr string) []byte {
	if secStr == "" {
		// use all 64 possible bytes if doing a generated secret
		tokSecret := make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret
	}

	tokSecret := []byte(secStr)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > server.MaxSecretSize {
		fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
		os.Exit(1)
	}
	return tokSecret
}

func resolveAPIKeyHash(fileHash string) ([]byte, error) {
	if *flagGenKey {
		if pflag.Lookup("api-key-hash").Changed {
			return nil, fmt.Errorf("--generate-api-key and --api-key-hash are mutually exclusive")
		}

		keyBytes := make([]byte, 32)
		if _, err := rand.Read(keyBytes); err != nil {
			return nil, fmt.Errorf("generate API key: %w", err)
		}
		key := base64.RawURLEncoding.EncodeToString(keyBytes)

		hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash generated API key: %w", err)
		}

		fmt.Printf("Generated operator API key (save this now, it cannot be shown again):\n\n    %s\n\n", key)
		return hash, nil
	}

	hashStr := resolveFlag(*flagKeyHash, "api-key-hash", EnvAPIKeyHash)
	if hashStr == "" {
		hashStr = fileHash
	}
	if hashStr == "" {
		return nil, fmt.Errorf("no operator API key hash given; pass --api-key-hash, set %s, or pass --generate-api-key", EnvAPIKeyHash)
	}
	return []byte(strings.TrimSpace(hashStr)), nil
}
