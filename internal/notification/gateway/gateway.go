// Package gateway holds delivery gateway adapters. The gateway owns
// per-recipient fan-out; the dispatcher calls an adapter exactly once per
// dispatch and takes the returned tally at face value. Adapters satisfy
// notification.Gateway.
package gateway
