// Package testutil provides shared assertions and helpers for allocator tests.
//
// Examples of utilities that belong here:
//   - Invariant checks over issued messages (uniqueness, ownership, order)
//   - Drivers that push parties to exhaustion
//   - Resource measurement for stress tests
//
// Note: For NATS server setup, use the github.com/arloliu/rotawin/testing package.
package testutil
