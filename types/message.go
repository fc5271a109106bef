package types

// Message is the result of a successful send: one pad index issued to one party.
//
// Payload is opaque to the allocator. It is neither copied nor inspected.
type Message struct {
	Sender   int    `json:"sender"`
	PadIndex int    `json:"padIndex"`
	Payload  []byte `json:"payload,omitempty"`
}
