package rpc

import (
	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
)

// =====================================================
// Query Request Types
// =====================================================

type idRequest struct {
	ID uint64 `json:"id"`
}

// addresses are raw: a hex address or an ed25519 public key
type addressRequest struct {
	Address string `json:"address"`
}

type currencyRequest struct {
	Currency fsm.PollCurrency `json:"currency"`
}

type paginatedRequest struct {
	lib.PageParams
}

type addressAndIdRequest struct {
	addressRequest
	idRequest
}

type addressAndCurrencyRequest struct {
	addressRequest
	currencyRequest
}

type eventsRequest struct {
	Count int `json:"count"`
}

// =====================================================
// Query Response Types
// =====================================================

type heightResponse struct {
	Height uint64 `json:"height"`
}

type countResponse struct {
	Count uint64 `json:"count"`
}

// PollsPage is a lib.Page with typed results
type PollsPage struct {
	lib.Page
	Results []*fsm.Poll `json:"results"`
}
