/*
Package observability turns lifecycle events into Prometheus metrics and
structured log lines.

Components emit domain.LifecycleHooks events; Metrics.Hooks and LogHooks
produce hook sets that can be merged with Compose and handed to the
applier and the tool servers.
*/
package observability
