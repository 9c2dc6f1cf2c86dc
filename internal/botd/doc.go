// Package botd is a development backend for the chat widget: a concrete
// stand-in for the hosted chatbot service, useful in local development
// and end-to-end tests.
//
// It serves the webhook endpoint the widget posts to
// (POST /chatbot/webhook/{key}/), answering each message from a
// pattern-based TOML reply script and persisting both turns to the
// store. A small web console at /console lists stored conversations and
// renders assistant markdown. POST /auth/refresh/ mints HS256 access
// tokens for the authclient package's refresh flow.
//
// Configuration is YAML with ${VAR} environment expansion, mirroring the
// widget config loader.
package botd
