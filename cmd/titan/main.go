// Titan is an HTTP gateway in front of multiple LLM and research backends.
//
// It routes chat, vision, voice, and research requests to the first
// provider that declares the needed capability and holds a usable
// credential, keeps conversation history in SQLite, and retries through a
// bounded fallback escalation when a backend fails.
//
// Usage:
//
//	# Start the gateway with default configuration
//	titan run
//
//	# Start with a config file
//	titan run --config /etc/titan/config.yaml
//
//	# Show version information
//	titan version
//
//	# Manage global provider API keys
//	titan keys set openai sk-...
//	titan keys list
package main

func main() {
	Execute()
}
