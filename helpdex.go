// Package helpdex provides a local, CLI-based semantic index of externally
// hosted help-center documentation. It periodically syncs published articles
// from each configured source's public API, normalizes them to plain text,
// splits them into overlapping passages, embeds each passage via a local
// Ollama instance, and stores passages and vectors in SQLite so that natural
// language queries can be answered by nearest-neighbor vector search.
//
// This package contains domain types, interfaces, and pure algorithms
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// zendesk/, ollama/).
package helpdex
