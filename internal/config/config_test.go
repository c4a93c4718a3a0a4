package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvPort, EnvAddr, EnvRunLocal, EnvBasePath, EnvAuthToken, EnvKVBackend,
		EnvDynamoDBTable, EnvRedisURL, EnvLevelDBPath, EnvBadgerPath,
		EnvResponsesQueueURL, EnvMetricsNamespace, EnvLogLevel, EnvGoEnvironment,
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultBasePath, cfg.BasePath)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RunLocal)
	assert.False(t, cfg.Production())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvRunLocal, "true")
	t.Setenv(EnvBasePath, "api/v1/")
	t.Setenv(EnvAuthToken, "s3cret")
	t.Setenv(EnvKVBackend, "DynamoDB")
	t.Setenv(EnvDynamoDBTable, "responses")
	t.Setenv(EnvGoEnvironment, "production")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.RunLocal)
	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, "s3cret", cfg.AuthToken)
	assert.Equal(t, BackendDynamoDB, cfg.Store.Backend)
	assert.Equal(t, "responses", cfg.Store.DynamoDBTable)
	assert.True(t, cfg.Production())
}

func TestFromEnv_RootBasePath(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBasePath, "/")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.BasePath)
}

func TestStoreConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Backend: BackendMemory}, false},
		{"dynamodb without table", StoreConfig{Backend: BackendDynamoDB}, true},
		{"dynamodb", StoreConfig{Backend: BackendDynamoDB, DynamoDBTable: "t"}, false},
		{"redis without url", StoreConfig{Backend: BackendRedis}, true},
		{"leveldb without path", StoreConfig{Backend: BackendLevelDB}, true},
		{"badger", StoreConfig{Backend: BackendBadger, BadgerPath: "/tmp/b"}, false},
		{"unknown", StoreConfig{Backend: "etcd"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
