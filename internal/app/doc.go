// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the inspection lifecycle, decoupled from any
// specific entrypoint like a CLI.
//
// # Lifecycle
//
// NewApp builds an isolated logger, registers the compiled-in archive
// formats and creates an archive cache opening through that registry. Run
// expands the configured paths into archive files, then inspects them
// concurrently: each worker checks a filtered scene out of the cache,
// updates it to the configured time, renders a report and returns the scene.
// Reports are written in path order once every worker has finished.
//
// # Concurrency Model
//
// Workers are bounded by Config.Workers through an errgroup. The cache is
// the only shared state; every worker owns the scene it checked out.
package app
