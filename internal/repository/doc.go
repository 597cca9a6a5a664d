// Package repository defines the data access interface for Contagion.
//
// The only persisted entity is the prepared contact network: the edge
// list after subsampling plus the force-directed home layout, keyed by
// dataset identity. Layout computation is the expensive part of network
// preparation, so caching it makes server restarts and dataset reloads
// cheap. Simulation state itself is never persisted; every run starts
// fresh from the cached network.
//
// The actual implementation is in the sqlite subpackage, which migrates
// its schema on startup and runs in WAL mode.
package repository
