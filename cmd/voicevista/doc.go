// Command voicevista is the terminal client for the VoiceVista
// transcription service. It signs in, uploads audio, follows processing,
// and downloads transcripts, either interactively (voicevista tui) or one
// command at a time.
package main
