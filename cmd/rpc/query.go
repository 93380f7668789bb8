package rpc

import (
	"net/http"

	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/julienschmidt/httprouter"
)

// Version writes the software version information
func (s *Server) Version(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// Transaction applies a message envelope at the current height
func (s *Server) Transaction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	envelope := new(fsm.MessageEnvelope)
	if ok := s.unmarshal(w, r, envelope); !ok {
		return
	}
	msg, err := envelope.Message()
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	result, err := s.controller.SubmitMessage(msg)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// Height responds with the height currently being built
func (s *Server) Height(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, &heightResponse{Height: s.controller.Height()}, http.StatusOK)
}

// Poll responds with the poll of the id
func (s *Server) Poll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(idRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.PollDetails(req.ID)
	})
}

// Polls responds with a page of polls, newest first
func (s *Server) Polls(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(paginatedRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.Polls(req.PageParams)
	})
}

// PollCount responds with the number of polls ever created
func (s *Server) PollCount(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		count, err := sm.PollCount()
		if err != nil {
			return nil, err
		}
		return &countResponse{Count: count}, nil
	})
}

// VotingRecord responds with the votes of an account on a poll, null if it never voted
func (s *Server) VotingRecord(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(addressAndIdRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	address, ok := s.resolve(w, req.Address)
	if !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.VotingRecord(address, req.ID)
	})
}

// Pot responds with the custody account of the currency
func (s *Server) Pot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(currencyRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		amount, err := sm.PotBalance(req.Currency)
		if err != nil {
			return nil, err
		}
		return &fsm.Account{Address: sm.PotAddress(), Currency: req.Currency, Amount: amount}, nil
	})
}

// Balance responds with the free balance of an account
func (s *Server) Balance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(addressAndCurrencyRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	address, ok := s.resolve(w, req.Address)
	if !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		amount, err := sm.Balance(address, req.Currency)
		if err != nil {
			return nil, err
		}
		return &fsm.Account{Address: address, Currency: req.Currency, Amount: amount}, nil
	})
}

// Supply responds with the minted amount of a currency
func (s *Server) Supply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(currencyRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.Supply(req.Currency)
	})
}

// Invariant responds with the comparison of the pot to everything it owes
func (s *Server) Invariant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(currencyRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	s.readOnly(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.CheckPotInvariant(req.Currency)
	})
}

// Events responds with the latest committed events, oldest first
func (s *Server) Events(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(eventsRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	write(w, s.controller.Events(req.Count), http.StatusOK)
}
