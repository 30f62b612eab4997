// Package claim defines the domain model for one-time token payouts: the
// claim operation a user submits, the claimant identity recovered from its
// signature, and the settlement message that crosses the shard boundary.
package claim

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidSignature is returned when a claim signature is malformed or
// address recovery fails. Services translate it into the invalid_signature
// fault.
var ErrInvalidSignature = errors.New("invalid signature")

// SignatureLength is the size of a recoverable secp256k1 signature: r ‖ s ‖ v.
const SignatureLength = 65

// ClaimantIDLength is the size of a recovered claimant address.
const ClaimantIDLength = 20

// ClaimantID is the identity a payout is deduplicated on: the address
// recovered from the claim signature. It is deterministic given the signature
// and the signed payload, which is what makes the dedup ledger race-free
// across shards.
type ClaimantID [ClaimantIDLength]byte

// Hex returns the 0x-prefixed lowercase hex form used in oracle queries and
// API responses.
func (id ClaimantID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id ClaimantID) String() string { return id.Hex() }

// Bytes returns the raw 20-byte identity.
func (id ClaimantID) Bytes() []byte { return id[:] }

// ParseClaimantID parses a 0x-prefixed hex address.
func ParseClaimantID(s string) (ClaimantID, error) {
	var id ClaimantID
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("parse claimant id: %w", err)
	}
	if len(raw) != ClaimantIDLength {
		return id, fmt.Errorf("parse claimant id: expected %d bytes, got %d", ClaimantIDLength, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MarshalJSON encodes the id as its hex string.
func (id ClaimantID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.Hex() + `"`), nil
}

// UnmarshalJSON decodes a hex string id.
func (id *ClaimantID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseClaimantID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Destination names the account a payout is delivered to.
type Destination struct {
	ShardID string `json:"shard_id"`
	OwnerID string `json:"owner_id"`
}

// Claim is the operation a user submits to request a payout. It is ephemeral:
// it exists only for the duration of one submission call and leaves no state
// behind when it aborts.
type Claim struct {
	Signature   []byte      `json:"signature"`
	Destination Destination `json:"destination"`
	Credential  string      `json:"api_token"`
}

// SettlementMessage is the only datum that crosses the shard boundary. The
// envelope it travels in carries the authenticated-sender marker; the message
// itself is just identity, amount, and destination.
type SettlementMessage struct {
	ID          ClaimantID  `json:"id"`
	Amount      Amount      `json:"amount"`
	Destination Destination `json:"destination"`
}

// CanonicalBytes returns the deterministic wire form of the message: fixed
// field order, length-prefixed variable fields. Two equal messages always
// serialize to identical bytes, which the channel's HMAC depends on.
func (m SettlementMessage) CanonicalBytes() []byte {
	var buf bytes.Buffer
	buf.Write(m.ID[:])
	writeLenPrefixed(&buf, m.Amount.Bytes())
	writeLenPrefixed(&buf, []byte(m.Destination.ShardID))
	writeLenPrefixed(&buf, []byte(m.Destination.OwnerID))
	return buf.Bytes()
}

// DecodeSettlementMessage parses the canonical wire form.
func DecodeSettlementMessage(data []byte) (SettlementMessage, error) {
	var m SettlementMessage
	r := bytes.NewReader(data)

	if _, err := io.ReadFull(r, m.ID[:]); err != nil {
		return m, fmt.Errorf("decode settlement message id: %w", err)
	}
	amountRaw, err := readLenPrefixed(r)
	if err != nil {
		return m, fmt.Errorf("decode settlement message amount: %w", err)
	}
	m.Amount = AmountFromBytes(amountRaw)
	shard, err := readLenPrefixed(r)
	if err != nil {
		return m, fmt.Errorf("decode settlement message shard: %w", err)
	}
	owner, err := readLenPrefixed(r)
	if err != nil {
		return m, fmt.Errorf("decode settlement message owner: %w", err)
	}
	if r.Len() != 0 {
		return m, fmt.Errorf("decode settlement message: %d trailing bytes", r.Len())
	}
	m.Destination = Destination{ShardID: string(shard), OwnerID: string(owner)}
	return m, nil
}

// EncodeOperation serializes a claim into the canonical operation bytes a
// client submits. Pure; used by the claim-construction endpoint and tests.
func EncodeOperation(c Claim) ([]byte, error) {
	if len(c.Signature) != SignatureLength {
		return nil, fmt.Errorf("%w: signature must be %d bytes", ErrInvalidSignature, SignatureLength)
	}
	var buf bytes.Buffer
	buf.Write(c.Signature)
	writeLenPrefixed(&buf, []byte(c.Destination.ShardID))
	writeLenPrefixed(&buf, []byte(c.Destination.OwnerID))
	writeLenPrefixed(&buf, []byte(c.Credential))
	return buf.Bytes(), nil
}

// DecodeOperation parses canonical operation bytes back into a claim.
func DecodeOperation(data []byte) (Claim, error) {
	var c Claim
	if len(data) < SignatureLength {
		return c, fmt.Errorf("decode claim: too short")
	}
	c.Signature = append([]byte(nil), data[:SignatureLength]...)
	r := bytes.NewReader(data[SignatureLength:])

	shard, err := readLenPrefixed(r)
	if err != nil {
		return c, fmt.Errorf("decode claim shard: %w", err)
	}
	owner, err := readLenPrefixed(r)
	if err != nil {
		return c, fmt.Errorf("decode claim owner: %w", err)
	}
	cred, err := readLenPrefixed(r)
	if err != nil {
		return c, fmt.Errorf("decode claim credential: %w", err)
	}
	if r.Len() != 0 {
		return c, fmt.Errorf("decode claim: %d trailing bytes", r.Len())
	}
	c.Destination = Destination{ShardID: string(shard), OwnerID: string(owner)}
	c.Credential = string(cred)
	return c, nil
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	buf.Write(l[:])
	buf.Write(b)
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	var l [4]byte
	if _, err := io.ReadFull(r, l[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(l[:])
	if uint32(r.Len()) < n {
		return nil, fmt.Errorf("field length %d exceeds remaining %d bytes", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
