// Package testing provides test helpers for code built on rotawin.
//
// It follows Go's convention of shipping test utilities in a dedicated package
// (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - CreateJetStreamKV: Memory-backed KV bucket for a test
//   - NewTestLogger: Logger writing to t.Logf
//
// Example usage:
//
//	import (
//	    "testing"
//	    rotatest "github.com/arloliu/rotawin/testing"
//	)
//
//	func TestDelivery(t *testing.T) {
//	    _, nc := rotatest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
