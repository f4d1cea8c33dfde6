// Package siteclone provides a headless-browser website cloner. It drives
// a controlled browser page through a single navigation, intercepts every
// network response along the way, persists static assets into a mirrored
// local tree, records API and WebSocket traffic as structured logs, and
// rewrites cross-references so the captured page is servable offline.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package siteclone
