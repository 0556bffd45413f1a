// Package macro stores named lambda terms and resolves them for the parser.
//
// A [Macro] is a name bound to the source of a closed term. Macros may refer
// to other macros and to the [Builtins]; [Resolve] expands the whole set
// into a [lambda.MacroMap] that [lambda.WithMacros] accepts.
//
// # Stores
//
// [Store] persists macro definitions. Four backends are provided:
//
//   - [MemoryStore]: process-local map, used by tests and the default CLI
//   - [FileStore]: a TOML file of [[macro]] tables
//   - [RedisStore]: one Redis hash shared by several servers
//   - [MongoStore]: one document per macro in a MongoDB collection
//
// [Open] selects a backend from a [Config]. Stores keep only names and
// sources; terms are rebuilt by [Resolve] so that redefining a macro takes
// effect for every macro that refers to it.
//
// # Errors
//
// Lookups of unknown names fail with code MACRO_NOT_FOUND. Definitions whose
// source has free variables fail with INVALID_TERM, and cyclic definitions
// with INVALID_MACRO.
package macro
