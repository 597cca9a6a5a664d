// Package service provides the business logic layer for Contagion.
//
// SimulationService wraps the single-threaded simulation engine behind
// one mutex, resolves dataset sources into contact networks (with a
// layout cache in the repository), and publishes lifecycle and tick
// events on the EventBus for the SSE hub to forward.
package service
