package httptransport

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"zkdrop/internal/claim"
	"zkdrop/internal/jwttoken"
	"zkdrop/internal/transport/http/mocks"
	"zkdrop/internal/treasury"
	"zkdrop/pkg/faults"
)

type handlerFixture struct {
	ctrl      *gomock.Controller
	submitter *mocks.MockSubmitter
	oracle    *mocks.MockEligibilityChecker
	settled   *mocks.MockSettledLister
	balances  *mocks.MockBalanceReader
	jwt       *jwttoken.Service
	server    http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fx := &handlerFixture{
		ctrl:      ctrl,
		submitter: mocks.NewMockSubmitter(ctrl),
		oracle:    mocks.NewMockEligibilityChecker(ctrl),
		settled:   mocks.NewMockSettledLister(ctrl),
		balances:  mocks.NewMockBalanceReader(ctrl),
		jwt:       jwttoken.NewService([]byte("test-signing-key"), "zkdrop-test"),
	}
	h := NewHandler(
		fx.submitter,
		fx.oracle,
		fx.settled,
		fx.balances,
		treasury.Account{ShardID: "treasury-0", OwnerID: "drop-pool"},
		nil,
		logger,
	)
	fx.server = NewRouter(h, fx.jwt, nil, logger)
	return fx
}

func (fx *handlerFixture) do(t *testing.T, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	fx.server.ServeHTTP(w, req)
	return w
}

func validClaimRequest() map[string]any {
	sig := make([]byte, claim.SignatureLength)
	for i := range sig {
		sig[i] = byte(i)
	}
	return map[string]any{
		"signature":   "0x" + hex.EncodeToString(sig),
		"destination": map[string]string{"shard_id": "shard-9", "owner_id": "wallet-1"},
		"api_token":   "oracle-token",
	}
}

func TestHandleSubmitClaim_Accepted(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	msg := &claim.SettlementMessage{
		ID:          claim.ClaimantID{0xaa},
		Amount:      claim.AmountOne(),
		Destination: claim.Destination{ShardID: "shard-9", OwnerID: "wallet-1"},
	}
	fx.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(msg, nil).
		Times(1)

	w := fx.do(t, http.MethodPost, "/v1/claims", validClaimRequest(), nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, msg.ID.Hex(), resp["claimant"])
	assert.Equal(t, "1", resp["amount"])
}

func TestHandleSubmitClaim_RejectsNonHexSignature(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	body := validClaimRequest()
	body["signature"] = "not-hex"

	w := fx.do(t, http.MethodPost, "/v1/claims", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(faults.CodeBadRequest))
}

func TestHandleSubmitClaim_RejectsMissingDestination(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	body := validClaimRequest()
	body["destination"] = map[string]string{"shard_id": "", "owner_id": ""}

	w := fx.do(t, http.MethodPost, "/v1/claims", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSubmitClaim_MapsFaultCodes(t *testing.T) {
	cases := []struct {
		name       string
		fault      *faults.Fault
		wantStatus int
	}{
		{"invalid signature", faults.New(faults.CodeInvalidSignature, "claim signature rejected"), http.StatusBadRequest},
		{"ineligible", faults.New(faults.CodeIneligible, "address is not eligible"), http.StatusForbidden},
		{"oracle unavailable", faults.New(faults.CodeOracleUnavailable, "eligibility check failed"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newHandlerFixture(t)
			defer fx.ctrl.Finish()

			fx.submitter.EXPECT().
				Submit(gomock.Any(), gomock.Any()).
				Return(nil, tc.fault)

			w := fx.do(t, http.MethodPost, "/v1/claims", validClaimRequest(), nil)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), string(tc.fault.Code))
		})
	}
}

func TestHandleEligibility(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	fx.oracle.EXPECT().
		CheckEligibility(gomock.Any(), "0xabc", "oracle-token").
		Return(true, nil)

	header := http.Header{"Authorization": []string{"Bearer oracle-token"}}
	w := fx.do(t, http.MethodGet, "/v1/eligibility?address=0xabc", nil, header)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["eligible"])
}

func TestHandleEligibility_RequiresAddress(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	header := http.Header{"Authorization": []string{"Bearer oracle-token"}}
	w := fx.do(t, http.MethodGet, "/v1/eligibility", nil, header)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEligibility_RequiresCredential(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	w := fx.do(t, http.MethodGet, "/v1/eligibility?address=0xabc", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleEligibility_OracleFailure(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	fx.oracle.EXPECT().
		CheckEligibility(gomock.Any(), "0xabc", "oracle-token").
		Return(false, errors.New("gateway timeout"))

	header := http.Header{"Authorization": []string{"Bearer oracle-token"}}
	w := fx.do(t, http.MethodGet, "/v1/eligibility?address=0xabc", nil, header)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), string(faults.CodeOracleUnavailable))
}

func TestHandleEncodeClaim_RoundTrips(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	w := fx.do(t, http.MethodPost, "/v1/claims/encode", validClaimRequest(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	raw, err := base64.StdEncoding.DecodeString(resp["operation"])
	require.NoError(t, err)
	decoded, err := claim.DecodeOperation(raw)
	require.NoError(t, err)
	assert.Equal(t, "shard-9", decoded.Destination.ShardID)
	assert.Equal(t, "oracle-token", decoded.Credential)
}

func TestHandleAdminSettlements_RequiresToken(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	w := fx.do(t, http.MethodGet, "/v1/admin/settlements", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	header := http.Header{"Authorization": []string{"Bearer bogus"}}
	w = fx.do(t, http.MethodGet, "/v1/admin/settlements", nil, header)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleAdminSettlements(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	ids := []claim.ClaimantID{{0x01}, {0x02}}
	fx.settled.EXPECT().List(gomock.Any()).Return(ids, nil)
	fx.balances.EXPECT().
		Balance(gomock.Any(), treasury.Account{ShardID: "treasury-0", OwnerID: "drop-pool"}).
		Return(claim.NewAmount(9), nil)

	token, err := fx.jwt.GenerateToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	w := fx.do(t, http.MethodGet, "/v1/admin/settlements", nil, header)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Settled         []string `json:"settled"`
		Count           int      `json:"count"`
		TreasuryBalance string   `json:"treasury_balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Settled, 2)
	assert.Equal(t, "9", resp.TreasuryBalance)
}

func TestHandleHealthz(t *testing.T) {
	fx := newHandlerFixture(t)
	defer fx.ctrl.Finish()

	w := fx.do(t, http.MethodGet, "/healthz", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
