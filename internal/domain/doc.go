// Package domain defines the core domain types for the Contagion epidemic
// simulation system.
//
// This package contains the fundamental entities and value objects of the
// simulation: agents, health statuses, 2-D positions, and tick snapshots.
//
// # Core Types
//
// Agent represents one member of the simulated population, bound to a node
// of the contact network. Its health dimension is a mutually exclusive
// status (Healthy, Infected, Recovered, Deceased) and its isolation
// dimension is an orthogonal flag that may only be set while the agent is
// Healthy or Infected.
//
// Point is a 2-D coordinate in the unit square used by the front-end
// renderer. Every agent carries three points: a fixed home position, a
// fixed quarantine target, and a mutable current position.
//
// Snapshot is the per-tick statistics record. Its five display categories
// always partition the population exactly once.
//
// # Design Principles
//
// - State transitions go through Agent methods so the exclusivity and
//   overlay invariants hold in one place
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
