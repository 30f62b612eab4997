package settlement

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"zkdrop/internal/claim"
)

// ErrNotAuthenticated is returned when an envelope's sender marker does not
// verify. The treasury shard trusts authenticated envelopes without
// re-verifying the claim signature, so unverified ones are dropped outright.
var ErrNotAuthenticated = errors.New("envelope not authenticated")

// Envelope is the transport frame for a settlement message. The MAC is the
// authenticated-sender marker: it covers the id, the sender, and the
// canonical payload bytes, keyed by the deployment's channel secret that only
// this application's own instances hold.
type Envelope struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Payload []byte `json:"payload"`
	MAC     []byte `json:"mac"`
}

// Seal wraps a settlement message in an authenticated envelope.
func Seal(msg claim.SettlementMessage, sender string, secret []byte) Envelope {
	env := Envelope{
		ID:      uuid.NewString(),
		Sender:  sender,
		Payload: msg.CanonicalBytes(),
	}
	env.MAC = mac(env, secret)
	return env
}

// Open verifies the envelope and returns the settlement message it carries.
func (e Envelope) Open(secret []byte) (claim.SettlementMessage, error) {
	if !hmac.Equal(e.MAC, mac(e, secret)) {
		return claim.SettlementMessage{}, fmt.Errorf("envelope %s from %q: %w", e.ID, e.Sender, ErrNotAuthenticated)
	}
	msg, err := claim.DecodeSettlementMessage(e.Payload)
	if err != nil {
		return claim.SettlementMessage{}, fmt.Errorf("envelope %s: %w", e.ID, err)
	}
	return msg, nil
}

func mac(e Envelope, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(e.ID))
	h.Write([]byte{0})
	h.Write([]byte(e.Sender))
	h.Write([]byte{0})
	h.Write(e.Payload)
	return h.Sum(nil)
}
