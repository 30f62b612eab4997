package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementMessageCodec(t *testing.T) {
	id, err := ParseClaimantID("0x00112233445566778899aabbccddeeff00112233")
	require.NoError(t, err)

	msg := SettlementMessage{
		ID:          id,
		Amount:      AmountOne(),
		Destination: Destination{ShardID: "treasury-0", OwnerID: "owner-7"},
	}

	t.Run("round trip", func(t *testing.T) {
		decoded, err := DecodeSettlementMessage(msg.CanonicalBytes())
		require.NoError(t, err)
		assert.Equal(t, msg.ID, decoded.ID)
		assert.True(t, decoded.Amount.Equal(msg.Amount))
		assert.Equal(t, msg.Destination, decoded.Destination)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, msg.CanonicalBytes(), msg.CanonicalBytes())
	})

	t.Run("rejects truncated input", func(t *testing.T) {
		raw := msg.CanonicalBytes()
		_, err := DecodeSettlementMessage(raw[:len(raw)-3])
		assert.Error(t, err)
	})

	t.Run("rejects trailing bytes", func(t *testing.T) {
		raw := append(msg.CanonicalBytes(), 0x00)
		_, err := DecodeSettlementMessage(raw)
		assert.Error(t, err)
	})
}

func TestOperationCodec(t *testing.T) {
	c := Claim{
		Signature:   make([]byte, SignatureLength),
		Destination: Destination{ShardID: "shard-1", OwnerID: "owner-1"},
		Credential:  "api-token",
	}
	c.Signature[0] = 0xab

	t.Run("round trip", func(t *testing.T) {
		raw, err := EncodeOperation(c)
		require.NoError(t, err)

		decoded, err := DecodeOperation(raw)
		require.NoError(t, err)
		assert.Equal(t, c, decoded)
	})

	t.Run("rejects bad signature length", func(t *testing.T) {
		bad := c
		bad.Signature = []byte{1, 2, 3}
		_, err := EncodeOperation(bad)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := DecodeOperation([]byte{1, 2, 3})
		assert.Error(t, err)
	})
}

func TestClaimantIDParsing(t *testing.T) {
	t.Run("accepts 0x prefix and mixed case", func(t *testing.T) {
		id, err := ParseClaimantID("0x00112233445566778899AABBCCDDEEFF00112233")
		require.NoError(t, err)
		assert.Equal(t, "0x00112233445566778899aabbccddeeff00112233", id.Hex())
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseClaimantID("0x0011")
		assert.Error(t, err)
	})

	t.Run("rejects non-hex", func(t *testing.T) {
		_, err := ParseClaimantID("0xzz112233445566778899aabbccddeeff00112233")
		assert.Error(t, err)
	})
}
