// Package adapter exposes the connection-string parsing, cursor, retry,
// and introspection surface a caller drives directly (spec §6.2): the
// DB-API-shaped layer sitting on top of sql, translate, and store.
package adapter

import (
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/kelseyhightower/envconfig"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// ConnParams holds the five required connection parameters plus any extra
// key/value pairs a connection string carried beyond them (spec §6.2).
type ConnParams struct {
	RPCURL     string
	WSURL      string
	PrivateKey string
	AppID      string
	SchemaID   string
	Extra      map[string]string
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnv substitutes ${VAR} and $VAR references with the current
// process environment, leaving unset variables untouched (spec §6.2).
func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"), "$")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

// ParseConnectionString accepts either of the two textual connection
// string formats: a `golembase://` URL, or a space-separated key=value
// list. Both are expanded for environment variable references first.
func ParseConnectionString(raw string) (ConnParams, error) {
	expanded := expandEnv(raw)

	switch {
	case strings.HasPrefix(expanded, "golembase://"):
		return parseURLFormat(expanded)
	case strings.Contains(expanded, "=") && strings.Contains(expanded, " "):
		return parseKeyValueFormat(expanded)
	default:
		return ConnParams{}, golemerrors.InterfaceError("invalid connection string format: %s", raw)
	}
}

func parseURLFormat(raw string) (ConnParams, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ConnParams{}, golemerrors.InterfaceError("failed to parse connection URL: %v", err)
	}
	if u.Scheme != "golembase" {
		return ConnParams{}, golemerrors.InterfaceError("URL scheme must be 'golembase'")
	}

	privateKey := u.User.Username()
	if privateKey == "" {
		return ConnParams{}, golemerrors.InterfaceError("private key must be specified in URL username part")
	}

	host := u.Hostname()
	port := u.Port()
	var rpcURL string
	if port != "" && port != "443" {
		rpcURL = "https://" + host + ":" + port + "/rpc"
	} else {
		rpcURL = "https://" + host + "/rpc"
	}

	appID := strings.TrimPrefix(u.Path, "/")

	query := u.Query()
	wsURL := query.Get("ws_url")
	if wsURL == "" {
		return ConnParams{}, golemerrors.InterfaceError("ws_url query parameter is required")
	}
	schemaID := query.Get("schema_id")

	extra := make(map[string]string)
	for key, values := range query {
		if key == "ws_url" || key == "schema_id" || len(values) == 0 {
			continue
		}
		extra[key] = values[0]
	}

	params := ConnParams{
		RPCURL:     rpcURL,
		WSURL:      wsURL,
		PrivateKey: privateKey,
		AppID:      appID,
		SchemaID:   schemaID,
		Extra:      extra,
	}
	return params, params.validate()
}

func parseKeyValueFormat(raw string) (ConnParams, error) {
	values := make(map[string]string)
	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	appID := values["app_id"]
	schemaID := values["schema_id"]

	extra := make(map[string]string)
	for k, v := range values {
		switch k {
		case "rpc_url", "ws_url", "private_key", "app_id", "schema_id":
		default:
			extra[k] = v
		}
	}

	params := ConnParams{
		RPCURL:     values["rpc_url"],
		WSURL:      values["ws_url"],
		PrivateKey: values["private_key"],
		AppID:      appID,
		SchemaID:   schemaID,
		Extra:      extra,
	}
	return params, params.validate()
}

// envParams mirrors ConnParams' five required fields for envconfig-driven
// configuration (spec §6.2's "or from the environment" case), one level
// below a full connection string: GOLEMDB_RPC_URL, GOLEMDB_WS_URL,
// GOLEMDB_PRIVATE_KEY, GOLEMDB_APP_ID, GOLEMDB_SCHEMA_ID.
type envParams struct {
	RPCURL     string `envconfig:"rpc_url" required:"true"`
	WSURL      string `envconfig:"ws_url" required:"true"`
	PrivateKey string `envconfig:"private_key" required:"true"`
	AppID      string `envconfig:"app_id" required:"true"`
	SchemaID   string `envconfig:"schema_id" required:"true"`
}

// ParseConnectionParams builds a ConnParams straight from the process
// environment under the GOLEMDB_ prefix, for callers that prefer discrete
// variables to a single connection string (spec §6.2).
func ParseConnectionParams() (ConnParams, error) {
	var cfg envParams
	if err := envconfig.Process("golemdb", &cfg); err != nil {
		return ConnParams{}, golemerrors.InterfaceError("loading connection parameters from environment: %v", err)
	}

	params := ConnParams{
		RPCURL:     cfg.RPCURL,
		WSURL:      cfg.WSURL,
		PrivateKey: cfg.PrivateKey,
		AppID:      cfg.AppID,
		SchemaID:   cfg.SchemaID,
		Extra:      make(map[string]string),
	}
	return params, params.validate()
}

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// validate enforces spec §6.2: all five parameters required, URLs must
// carry the right scheme, and the private key must be 32 bytes of hex.
func (p ConnParams) validate() error {
	if p.RPCURL == "" {
		return golemerrors.InterfaceError("rpc_url is required")
	}
	if p.WSURL == "" {
		return golemerrors.InterfaceError("ws_url is required")
	}
	if p.PrivateKey == "" {
		return golemerrors.InterfaceError("private_key is required")
	}
	if p.AppID == "" {
		return golemerrors.InterfaceError("app_id is required")
	}
	if p.SchemaID == "" {
		return golemerrors.InterfaceError("schema_id is required")
	}
	if !strings.HasPrefix(p.RPCURL, "http://") && !strings.HasPrefix(p.RPCURL, "https://") {
		return golemerrors.InterfaceError("rpc_url must be an HTTP or HTTPS URL")
	}
	if !strings.HasPrefix(p.WSURL, "ws://") && !strings.HasPrefix(p.WSURL, "wss://") {
		return golemerrors.InterfaceError("ws_url must be a WebSocket URL")
	}

	key := strings.TrimPrefix(p.PrivateKey, "0x")
	if !hexPattern.MatchString(key) {
		return golemerrors.InterfaceError("private_key must be a valid hex string")
	}
	if len(key) != 64 {
		return golemerrors.InterfaceError("private_key must be 32 bytes (64 hex characters)")
	}

	return nil
}
