package claim

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Domain separation constants for the claim signature payload. Binding the
// application identity prevents replaying a signature captured against a
// different deployment of the same code; binding the destination prevents
// redirecting a captured signature to a different payout target.
const (
	signatureDomainName    = "zkDrop"
	signatureDomainVersion = "1"
)

var (
	claimTypeHash  = crypto.Keccak256([]byte("AirDropClaim(string shardId,string ownerId)"))
	domainTypeHash = crypto.Keccak256([]byte("ClaimDomain(string name,string version,string applicationId)"))
)

// PayloadDigest computes the domain-separated structured hash a claimant
// signs: keccak256(0x19 0x01 ‖ domainSeparator ‖ structHash), EIP-712 style.
func PayloadDigest(applicationID string, dest Destination) []byte {
	domainSeparator := crypto.Keccak256(
		domainTypeHash,
		crypto.Keccak256([]byte(signatureDomainName)),
		crypto.Keccak256([]byte(signatureDomainVersion)),
		crypto.Keccak256([]byte(applicationID)),
	)
	structHash := crypto.Keccak256(
		claimTypeHash,
		crypto.Keccak256([]byte(dest.ShardID)),
		crypto.Keccak256([]byte(dest.OwnerID)),
	)
	return crypto.Keccak256([]byte{0x19, 0x01}, domainSeparator, structHash)
}

// RecoverClaimant recovers the claimant identity from a claim signature.
// Pure; no side effects. Fails with ErrInvalidSignature when the signature is
// malformed or recovery fails.
func RecoverClaimant(applicationID string, dest Destination, sig []byte) (ClaimantID, error) {
	var id ClaimantID
	if len(sig) != SignatureLength {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLength, len(sig))
	}

	// Accept both recovery id conventions: 0/1 and the Ethereum 27/28 form.
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return id, fmt.Errorf("%w: invalid recovery id %d", ErrInvalidSignature, sig[64])
	}

	pub, err := crypto.SigToPub(PayloadDigest(applicationID, dest), normalized)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return ClaimantID(crypto.PubkeyToAddress(*pub)), nil
}

// SignClaim signs the claim payload with the given key, producing the 65-byte
// recoverable signature a claim carries. Used by client tooling and tests.
func SignClaim(key *ecdsa.PrivateKey, applicationID string, dest Destination) ([]byte, error) {
	sig, err := crypto.Sign(PayloadDigest(applicationID, dest), key)
	if err != nil {
		return nil, fmt.Errorf("sign claim payload: %w", err)
	}
	return sig, nil
}
