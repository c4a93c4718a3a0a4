package config

// Environment variable names.
const (
	// SERVER

	EnvPort     = "PORT"
	EnvAddr     = "ADDR"
	EnvRunLocal = "RUN_LOCAL"
	EnvBasePath = "BASE_PATH"

	// AUTH

	EnvAuthToken = "AUTH_TOKEN"

	// STORAGE

	EnvKVBackend     = "KV_BACKEND"
	EnvDynamoDBTable = "DYNAMODB_TABLE"
	EnvRedisURL      = "REDIS_URL"
	EnvLevelDBPath   = "LEVELDB_PATH"
	EnvBadgerPath    = "BADGER_PATH"

	// NOTIFICATIONS / METRICS

	EnvResponsesQueueURL = "RESPONSES_QUEUE_URL"
	EnvMetricsNamespace  = "METRICS_NAMESPACE"

	// LOGGING

	EnvLogLevel      = "LOG_LEVEL"
	EnvGoEnvironment = "GO_ENV"
)
