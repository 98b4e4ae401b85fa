// Package config loads, normalizes, and validates VoiceVista client
// configuration.
//
// Values come from three layers: repository defaults, an optional TOML file
// (explicit path, ~/.config/voicevista/config.toml, or ./voicevista.toml), and
// environment overrides such as VOICEVISTA_API_URL. A .env file in the working
// directory is loaded into the environment by the CLI before Load runs.
package config
