// Package infra holds the adapters behind the core interfaces: document
// store, logging, metrics sinks, audit history, MQTT notifier and Sentry.
package infra
