package fsm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

// GenesisState is the beginning state of the node
type GenesisState struct {
	Accounts []*GenesisAccount `json:"accounts"`
	Admin    crypto.Address    `json:"admin,omitempty"` // root authority allowed to enact a poll end manually
}

// GenesisAccount is a balance minted at genesis
type GenesisAccount struct {
	Address  crypto.Address `json:"address"`
	Currency PollCurrency   `json:"currency"`
	Amount   uint64         `json:"amount"`
}

// NewFromGenesisFile() creates a new beginning state from the genesis file in the data directory
// a missing file is an empty genesis
func (s *StateMachine) NewFromGenesisFile() lib.ErrorI {
	genesis, err := s.ReadGenesisFromFile()
	if err != nil {
		return err
	}
	return s.NewStateFromGenesis(genesis)
}

// ReadGenesisFromFile() reads a GenesisState object from a file
func (s *StateMachine) ReadGenesisFromFile() (genesis *GenesisState, e lib.ErrorI) {
	genesis = new(GenesisState)
	bz, err := os.ReadFile(filepath.Join(s.Config.DataDirPath, lib.GenesisFilePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("no %s found in %s, starting from an empty state", lib.GenesisFilePath, s.Config.DataDirPath)
			return genesis, nil
		}
		return nil, ErrReadGenesisFile(err)
	}
	if err = json.Unmarshal(bz, genesis); err != nil {
		return nil, ErrUnmarshalGenesis(err)
	}
	e = s.ValidateGenesisState(genesis)
	return
}

// NewStateFromGenesis() creates a new beginning state using a GenesisState object
func (s *StateMachine) NewStateFromGenesis(genesis *GenesisState) lib.ErrorI {
	if err := s.ValidateGenesisState(genesis); err != nil {
		return err
	}
	ledger, ok := s.ledger.(*StateLedger)
	if !ok {
		return ErrInvalidGenesis(fmt.Sprintf("ledger %T can't mint", s.ledger))
	}
	for _, acc := range genesis.Accounts {
		if err := ledger.Mint(acc.Address, acc.Currency, acc.Amount); err != nil {
			return err
		}
	}
	if len(genesis.Admin) != 0 {
		if err := s.Set(AdminKey(), genesis.Admin); err != nil {
			return err
		}
	}
	s.log.Infof("genesis loaded with %d account(s)", len(genesis.Accounts))
	return nil
}

// ValidateGenesisState() validates a GenesisState object
func (s *StateMachine) ValidateGenesisState(genesis *GenesisState) lib.ErrorI {
	pot := s.PotAddress()
	for i, acc := range genesis.Accounts {
		if len(acc.Address) != crypto.AddressSize {
			return ErrInvalidGenesis(fmt.Sprintf("account %d: address must be %d bytes", i, crypto.AddressSize))
		}
		if acc.Address.Equals(pot) {
			return ErrInvalidGenesis(fmt.Sprintf("account %d: the pot starts empty", i))
		}
		if acc.Amount == 0 {
			return ErrInvalidGenesis(fmt.Sprintf("account %d: amount is zero", i))
		}
	}
	if len(genesis.Admin) != 0 && len(genesis.Admin) != crypto.AddressSize {
		return ErrInvalidGenesis(fmt.Sprintf("admin address must be %d bytes", crypto.AddressSize))
	}
	return nil
}

// DefaultGenesis() funds a single development account in the native currency and makes it the admin
func DefaultGenesis(address crypto.Address) *GenesisState {
	return &GenesisState{
		Accounts: []*GenesisAccount{{Address: address, Currency: NativeCurrency(), Amount: 1_000_000_000}},
		Admin:    address,
	}
}

// WriteGenesisFile() saves the genesis state in the data directory
func WriteGenesisFile(genesis *GenesisState, dataDirPath string) lib.ErrorI {
	return lib.SaveJSONToFile(genesis, dataDirPath, lib.GenesisFilePath)
}
