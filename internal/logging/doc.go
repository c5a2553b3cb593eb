// Package logging contains the structured logging pipeline used across the
// service.
//
// It is built around slog and keeps logs consistent by:
//   - Emitting one JSON object (or text line) per event with stable keys.
//   - Attaching the request correlation ID (when present) to each record.
//   - Raising the level floor of known-noisy server channels.
package logging
