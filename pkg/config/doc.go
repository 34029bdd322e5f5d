// Package config defines the gateway's configuration surface.
//
// Configuration loads from a YAML file, gains defaults, then takes
// environment overrides following the TITAN_SECTION_FIELD convention
// (e.g. TITAN_SERVER_LISTEN_ADDRESS). Provider credentials come from the
// conventional environment variables (OPENAI_API_KEY and friends) or from
// an optional credentials file that can be hot-reloaded through Watcher.
package config
