package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		errMsg string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "missing server listen", modify: func(cfg *Config) { cfg.Server.Listen = "" }, errMsg: "server.listen is required"},
		{name: "missing server timeout", modify: func(cfg *Config) { cfg.Server.Timeout = 0 }, errMsg: "server.timeout is required"},
		{name: "missing upstream", modify: func(cfg *Config) { cfg.Upstream.BaseURL = "" }, errMsg: "upstream.base_url is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestVerify_SchemaMismatch(t *testing.T) {
	t.Run("bad schema", func(t *testing.T) {
		err := verify(Default(), []byte("{not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse schema")
	})

	t.Run("section missing in schema", func(t *testing.T) {
		schema := `{"$ref": "#/$defs/Config", "$defs": {"Config": {"properties": {"server": {"type": "object"}}}}}`
		err := verify(Default(), []byte(schema))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing in schema")
	})

	t.Run("no definition", func(t *testing.T) {
		err := verify(Default(), []byte(`{"$ref": "#/$defs/Other"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no config definition")
	})
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"upstream"`)
	assert.Contains(t, string(data), `"user_agent"`)

	// generated schema accepts the default config
	require.NoError(t, verify(Default(), data))

	// embedded schema is in sync with the config sections
	root := rootDefinition(schema)
	require.NotNil(t, root)
	for _, section := range []string{"server", "database", "upstream"} {
		_, ok := root.Properties.Get(section)
		assert.True(t, ok, section)
	}
}
