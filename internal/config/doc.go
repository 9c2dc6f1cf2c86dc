// Package config handles widget configuration.
//
// # Overview
//
// A widget is configured once, at initialization, and the configuration is
// immutable afterwards. Host programs can supply options explicitly, load
// them from a YAML file, or rely on declarative auto-init from environment
// variables.
//
// # Required fields
//
// Two fields are required; initialization fails without them:
//
//	webhook_key:  opaque identifier binding the widget to a tenant/bot
//	api_base_url: backend base URL, no trailing slash
//
// # Environment Variable Expansion
//
// Configuration files can reference environment variables:
//
//	webhook_key: "${CHATBOT_WEBHOOK_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Declarative auto-init
//
// FromEnv reads CHATBOT_WEBHOOK_KEY and CHATBOT_API_URL directly, the
// process-level analog of configuring the hosted widget through script-tag
// data attributes. When only the key is present, the API URL falls back to
// the local development default.
package config
