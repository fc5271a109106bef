// Package hash provides the xxh3-based hashing used by the scenario driver:
// payload checksums carried on the wire and deterministic per-trial seeds.
package hash

import (
	"encoding/binary"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Checksum returns the xxh3 hash of payload.
func Checksum(payload []byte) uint64 {
	return xxh3.Hash(payload)
}

// ChecksumString returns Checksum(payload) as a lowercase hex string, the form
// carried in message headers.
func ChecksumString(payload []byte) string {
	return strconv.FormatUint(Checksum(payload), 16)
}

// VerifyChecksum reports whether sum (as produced by ChecksumString) matches payload.
func VerifyChecksum(payload []byte, sum string) bool {
	want, err := strconv.ParseUint(sum, 16, 64)
	if err != nil {
		return false
	}

	return Checksum(payload) == want
}

// DeriveSeed derives a deterministic seed for one trial of one scenario.
//
// The same (base, scenario, trial) always yields the same seed, and changing
// any of them yields an unrelated one.
//
// Parameters:
//   - base: Run-level seed
//   - scenario: Scenario number (the active party count)
//   - trial: Trial number within the scenario
//
// Returns:
//   - uint64: Seed for the trial's random source
func DeriveSeed(base uint64, scenario, trial int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(scenario)) //nolint:gosec // scenario is a small positive count
	binary.LittleEndian.PutUint64(buf[8:], uint64(trial))    //nolint:gosec // trial is a small positive count

	return xxh3.HashSeed(buf[:], base)
}
