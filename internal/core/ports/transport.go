package ports

import "context"

// MessageTransport is the boundary of the cross-chain messaging channel. A
// submitted message is one-way: delivery, fee markets and remote execution
// are external and unverifiable from this side. Acceptance by the transport
// only means the message entered the channel.
type MessageTransport interface {
	// SubmitMessage hands the encoded message over to the channel.
	SubmitMessage(ctx context.Context, payload []byte) error
}
