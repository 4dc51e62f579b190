// Package config provides application configuration from a YAML file and
// environment variables.
//
// Values are resolved in order: built-in defaults, the optional YAML file,
// then INSPECTOR_* environment variables.
//
// Server settings:
//
//	INSPECTOR_ADDR=":8080"
//	INSPECTOR_READ_TIMEOUT="15s"
//	INSPECTOR_WRITE_TIMEOUT="30s"
//	INSPECTOR_MAX_BODY_BYTES="10485760"
//	INSPECTOR_CACHE_SIZE="128"
//
// Diff settings:
//
//	INSPECTOR_INTERCEPTOR_URL="https://ci.example.com/intercept"
//	INSPECTOR_INTERCEPTOR_TIMEOUT="10s"
//	INSPECTOR_FAIL_ON_DANGEROUS="true"
//	INSPECTOR_RULES="ignoreDescriptionChanges,suppressRemovalOfDeprecatedField"
//
// Observability settings:
//
//	INSPECTOR_LOG_LEVEL="info"  # debug, info, warn, error
//	INSPECTOR_METRICS_ENABLED="true"
//	INSPECTOR_OTEL_ENABLED="true"
//	INSPECTOR_OTEL_ENDPOINT="otel-collector:4317"
//
// The same settings in YAML:
//
//	server:
//	  addr: ":9000"
//	diff:
//	  fail_on_dangerous: true
//	  rules: [ignoreDescriptionChanges]
//	observability:
//	  log_level: debug
package config
