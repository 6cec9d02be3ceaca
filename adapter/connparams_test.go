package adapter

import (
	"os"
	"testing"
)

const validKey = "1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"

func TestParseKeyValueFormat(t *testing.T) {
	raw := "rpc_url=https://rpc.example.com ws_url=wss://ws.example.com private_key=" + validKey + " app_id=myapp schema_id=s1"
	p, err := ParseConnectionString(raw)
	if err != nil {
		t.Fatal(err)
	}
	if p.RPCURL != "https://rpc.example.com" || p.AppID != "myapp" || p.SchemaID != "s1" {
		t.Errorf("got %+v", p)
	}
}

func TestParseURLFormat(t *testing.T) {
	raw := "golembase://" + validKey + "@rpc.example.com/myapp?ws_url=wss://ws.example.com&schema_id=s1"
	p, err := ParseConnectionString(raw)
	if err != nil {
		t.Fatal(err)
	}
	if p.RPCURL != "https://rpc.example.com/rpc" || p.WSURL != "wss://ws.example.com" || p.AppID != "myapp" {
		t.Errorf("got %+v", p)
	}
}

func TestParseRejectsMissingRequiredParam(t *testing.T) {
	raw := "ws_url=wss://ws.example.com private_key=" + validKey
	if _, err := ParseConnectionString(raw); err == nil {
		t.Fatal("expected missing rpc_url to fail")
	}
}

func TestParseRejectsMalformedPrivateKey(t *testing.T) {
	raw := "rpc_url=https://rpc.example.com ws_url=wss://ws.example.com private_key=nothex app_id=a schema_id=s"
	if _, err := ParseConnectionString(raw); err == nil {
		t.Fatal("expected malformed private_key to fail")
	}
}

func TestParseExpandsEnvVars(t *testing.T) {
	os.Setenv("GOLEMDB_TEST_RPC", "https://rpc.example.com")
	defer os.Unsetenv("GOLEMDB_TEST_RPC")

	raw := "rpc_url=${GOLEMDB_TEST_RPC} ws_url=wss://ws.example.com private_key=" + validKey + " app_id=a schema_id=s"
	p, err := ParseConnectionString(raw)
	if err != nil {
		t.Fatal(err)
	}
	if p.RPCURL != "https://rpc.example.com" {
		t.Errorf("rpc_url = %q", p.RPCURL)
	}
}

func TestParseRejectsUnrecognizedFormat(t *testing.T) {
	if _, err := ParseConnectionString("not a valid connection string"); err == nil {
		t.Fatal("expected unrecognized format to fail")
	}
}

func TestParseConnectionParamsFromEnv(t *testing.T) {
	for k, v := range map[string]string{
		"GOLEMDB_RPC_URL":     "https://rpc.example.com",
		"GOLEMDB_WS_URL":      "wss://ws.example.com",
		"GOLEMDB_PRIVATE_KEY": validKey,
		"GOLEMDB_APP_ID":      "myapp",
		"GOLEMDB_SCHEMA_ID":   "s1",
	} {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	p, err := ParseConnectionParams()
	if err != nil {
		t.Fatal(err)
	}
	if p.RPCURL != "https://rpc.example.com" || p.AppID != "myapp" || p.SchemaID != "s1" {
		t.Errorf("got %+v", p)
	}
}

func TestParseConnectionParamsMissingRequiredEnvVar(t *testing.T) {
	os.Unsetenv("GOLEMDB_RPC_URL")
	os.Unsetenv("GOLEMDB_WS_URL")
	os.Unsetenv("GOLEMDB_PRIVATE_KEY")
	os.Unsetenv("GOLEMDB_APP_ID")
	os.Unsetenv("GOLEMDB_SCHEMA_ID")

	if _, err := ParseConnectionParams(); err == nil {
		t.Fatal("expected missing environment variables to fail")
	}
}
