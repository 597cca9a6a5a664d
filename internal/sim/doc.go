// Package sim implements the discrete-time epidemic process over a fixed
// contact network.
//
// A Simulation is a caller-owned context object: it holds the agent
// registry, the tick counter, and an injected random source, so multiple
// independent simulations can run side by side and tests can seed the RNG
// for reproducible runs. One call to Step performs a full
// compute-then-commit cycle: every new-infection, isolation, recovery,
// death, and release set is derived from the pre-tick state and applied
// atomically, so no observer ever sees a partially updated tick.
//
// The health dimension (Healthy → Infected → Recovered | Deceased) and the
// isolation overlay are tracked per agent in the domain package; this
// package owns the transition rules, the weekly mobility schedule that
// gates transmission, the quarantine-area motion, interventions, and the
// per-tick statistics snapshot.
package sim
