// Package store persists conversations and settings.
//
// Two SQLite-backed stores live here. The conversation store owns the
// message history of every chat thread; a session holds a transient copy
// while building a turn, then performs a single read-modify-write. The
// settings store holds per-user API key overrides and the persisted global
// defaults that seed the credential resolver at startup.
//
// A conversation write is always a single atomic upsert (full message-list
// replace or insert), never a partial append, so a cancelled caller can not
// leave a half-written record. There is no per-conversation version check:
// two concurrent turns against the same conversation both load the same
// history and the last writer wins. See the regression test in
// pkg/session for the observable effect.
//
// The retention pruner deletes conversations past a configured age on a
// cron schedule. This is an administrative concern; nothing in the turn
// path ever deletes.
package store
