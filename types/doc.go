// Package types provides core type definitions and interfaces for the rotawin library.
//
// This package contains shared types that are used across multiple packages in the
// rotawin library. By keeping these types in a separate package, we avoid import cycles
// between the main rotawin package and its internal implementations.
//
// Key types:
//   - Window: Contiguous, inclusive range of pad indices owned as a unit
//   - Message: Result of consuming one pad index
//   - PartyState: Per-party allocation state
//   - ClaimPath: How a window was obtained (preferred slot or reclaim)
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
