// Package httptransport is the thin HTTP layer over the drop services. It
// delegates to the submitter and the stores without embedding protocol logic
// so transport concerns stay isolated.
package httptransport

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"zkdrop/internal/claim"
	"zkdrop/internal/treasury"
	"zkdrop/pkg/faults"
	"zkdrop/pkg/platform/httputil"
	"zkdrop/pkg/requestcontext"
)

// Submitter runs phase one of the settlement protocol for one claim.
type Submitter interface {
	Submit(ctx context.Context, c claim.Claim) (*claim.SettlementMessage, error)
}

// EligibilityChecker answers pre-flight eligibility probes.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, address, credential string) (bool, error)
}

// SettledLister exposes the dedup ledger's contents for the admin surface.
type SettledLister interface {
	List(ctx context.Context) ([]claim.ClaimantID, error)
}

// BalanceReader reads a treasury account balance for the admin surface.
type BalanceReader interface {
	Balance(ctx context.Context, account treasury.Account) (claim.Amount, error)
}

// HealthCheck probes one dependency. A nil map entry is skipped.
type HealthCheck func(ctx context.Context) error

// Handler serves the public claim API and the admin surface.
type Handler struct {
	submitter Submitter
	oracle    EligibilityChecker
	settled   SettledLister
	balances  BalanceReader
	source    treasury.Account
	checks    map[string]HealthCheck
	logger    *slog.Logger
}

// NewHandler builds the HTTP handler set.
func NewHandler(
	submitter Submitter,
	oracle EligibilityChecker,
	settled SettledLister,
	balances BalanceReader,
	source treasury.Account,
	checks map[string]HealthCheck,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		submitter: submitter,
		oracle:    oracle,
		settled:   settled,
		balances:  balances,
		source:    source,
		checks:    checks,
		logger:    logger,
	}
}

// claimRequest is the wire form of a claim submission. Signatures travel as
// 0x-prefixed hex, the convention of the wallets producing them.
type claimRequest struct {
	Signature   string            `json:"signature"`
	Destination claim.Destination `json:"destination"`
	Credential  string            `json:"api_token"`
}

func (req claimRequest) toClaim() (claim.Claim, error) {
	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		return claim.Claim{}, faults.New(faults.CodeBadRequest, "signature must be 0x-prefixed hex")
	}
	if req.Destination.ShardID == "" || req.Destination.OwnerID == "" {
		return claim.Claim{}, faults.New(faults.CodeBadRequest, "destination shard_id and owner_id are required")
	}
	return claim.Claim{
		Signature:   sig,
		Destination: req.Destination,
		Credential:  req.Credential,
	}, nil
}

// handleSubmitClaim accepts a claim, runs the submission phase, and reports
// the settlement message that was queued.
func (h *Handler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[claimRequest](w, r, h.logger)
	if !ok {
		return
	}
	c, err := req.toClaim()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	msg, err := h.submitter.Submit(ctx, c)
	if err != nil {
		// The submitter already logged and counted the abort.
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"claimant":    msg.ID.Hex(),
		"amount":      msg.Amount.String(),
		"destination": msg.Destination,
	})
}

// handleEligibility is the pre-flight oracle probe. It never touches the
// settlement pipeline.
func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address := r.URL.Query().Get("address")
	if address == "" {
		httputil.WriteError(w, faults.New(faults.CodeBadRequest, "address query parameter is required"))
		return
	}
	credential, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		httputil.WriteError(w, faults.New(faults.CodeUnauthorized, "missing oracle credential"))
		return
	}

	eligible, err := h.oracle.CheckEligibility(ctx, address, credential)
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility probe failed",
			"address", address,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, faults.Wrap(err, faults.CodeOracleUnavailable, "eligibility check failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"address":  address,
		"eligible": eligible,
	})
}

// handleEncodeClaim returns the canonical operation bytes for a claim. Pure:
// nothing is verified or submitted.
func (h *Handler) handleEncodeClaim(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[claimRequest](w, r, h.logger)
	if !ok {
		return
	}
	c, err := req.toClaim()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	op, err := claim.EncodeOperation(c)
	if err != nil {
		httputil.WriteError(w, faults.Wrap(err, faults.CodeBadRequest, "claim cannot be encoded"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"operation": base64.StdEncoding.EncodeToString(op),
	})
}

// handleAdminSettlements reports the settled claimant ids and the remaining
// treasury balance.
func (h *Handler) handleAdminSettlements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := h.settled.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list settled claims",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, faults.New(faults.CodeInternal, "failed to list settlements"))
		return
	}

	balance, err := h.balances.Balance(ctx, h.source)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read treasury balance",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, faults.New(faults.CodeInternal, "failed to read treasury balance"))
		return
	}

	settled := make([]string, 0, len(ids))
	for _, id := range ids {
		settled = append(settled, id.Hex())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"settled":          settled,
		"count":            len(settled),
		"treasury_account": h.source.String(),
		"treasury_balance": balance.String(),
	})
}

// handleHealthz reports process liveness and per-dependency health.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	httputil.WriteJSON(w, status, body)
}
