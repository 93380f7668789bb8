package fsm

import (
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

// LedgerI is the balance keeping collaborator of the polls module
type LedgerI interface {
	// BalanceOf() returns the free balance of the account in the currency
	BalanceOf(address crypto.AddressI, currency PollCurrency) (uint64, lib.ErrorI)
	// Transfer() moves the amount between two accounts; fails with insufficient funds
	Transfer(from, to crypto.AddressI, currency PollCurrency, amount uint64) lib.ErrorI
	// TotalIssuance() returns the supply of the asset, zero if it doesn't exist
	TotalIssuance(assetId uint32) (uint64, lib.ErrorI)
}

// Account is the balance of an address in a single currency
type Account struct {
	Address  crypto.Address `json:"address" msgpack:"address"`
	Currency PollCurrency   `json:"currency" msgpack:"currency"`
	Amount   uint64         `json:"amount" msgpack:"amount"`
}

// Supply is the total minted amount of a currency
type Supply struct {
	Currency PollCurrency `json:"currency" msgpack:"currency"`
	Total    uint64       `json:"total" msgpack:"total"`
}

var _ LedgerI = &StateLedger{}

// StateLedger keeps balances in the state machine store so that transfers join the atomic scope of the caller
type StateLedger struct{ s *StateMachine }

// NewStateLedger() creates a ledger backed by the state of the state machine
func NewStateLedger(s *StateMachine) *StateLedger { return &StateLedger{s: s} }

// PotAddress() is the custody account holding every stake of the module
func (s *StateMachine) PotAddress() crypto.Address {
	return crypto.NewModuleAddress(s.Config.ModuleTag, "pot")
}

// GetAccount() returns the account of the address in the currency, a zero balance if never funded
func (l *StateLedger) GetAccount(address crypto.AddressI, currency PollCurrency) (*Account, lib.ErrorI) {
	bz, err := l.s.Get(KeyForAccount(address, currency))
	if err != nil {
		return nil, err
	}
	acc := &Account{Address: crypto.NewAddress(address.Bytes()), Currency: currency}
	if err = lib.Unmarshal(bz, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// SetAccount() upserts the account, an empty account is removed from the state
func (l *StateLedger) SetAccount(acc *Account) lib.ErrorI {
	key := KeyForAccount(acc.Address, acc.Currency)
	if acc.Amount == 0 {
		return l.s.Delete(key)
	}
	bz, err := lib.Marshal(acc)
	if err != nil {
		return err
	}
	return l.s.Set(key, bz)
}

// GetAccounts() returns every funded account of the currency
func (l *StateLedger) GetAccounts(currency PollCurrency) (accounts []*Account, err lib.ErrorI) {
	err = l.s.IterateAndExecute(AccountPrefix(currency), func(_, value []byte) lib.ErrorI {
		acc := new(Account)
		if e := lib.Unmarshal(value, acc); e != nil {
			return e
		}
		accounts = append(accounts, acc)
		return nil
	})
	return
}

// BalanceOf() returns the free balance of the account in the currency
func (l *StateLedger) BalanceOf(address crypto.AddressI, currency PollCurrency) (uint64, lib.ErrorI) {
	acc, err := l.GetAccount(address, currency)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// Transfer() moves the amount from one account to another
func (l *StateLedger) Transfer(from, to crypto.AddressI, currency PollCurrency, amount uint64) lib.ErrorI {
	if amount == 0 || from.Equals(to) {
		return nil
	}
	sender, err := l.GetAccount(from, currency)
	if err != nil {
		return err
	}
	var ok bool
	if sender.Amount, ok = lib.SafeSub(sender.Amount, amount); !ok {
		return ErrInsufficientFunds()
	}
	receiver, err := l.GetAccount(to, currency)
	if err != nil {
		return err
	}
	if receiver.Amount, ok = lib.SafeAdd(receiver.Amount, amount); !ok {
		return ErrBalanceOverflow()
	}
	if err = l.SetAccount(sender); err != nil {
		return err
	}
	return l.SetAccount(receiver)
}

// Mint() creates new tokens in the account and increases the supply of the currency
func (l *StateLedger) Mint(address crypto.AddressI, currency PollCurrency, amount uint64) lib.ErrorI {
	acc, err := l.GetAccount(address, currency)
	if err != nil {
		return err
	}
	supply, err := l.GetSupply(currency)
	if err != nil {
		return err
	}
	var ok bool
	if acc.Amount, ok = lib.SafeAdd(acc.Amount, amount); !ok {
		return ErrBalanceOverflow()
	}
	if supply.Total, ok = lib.SafeAdd(supply.Total, amount); !ok {
		return ErrBalanceOverflow()
	}
	if err = l.SetAccount(acc); err != nil {
		return err
	}
	return l.SetSupply(supply)
}

// GetSupply() returns the supply of the currency, zero if nothing was minted
func (l *StateLedger) GetSupply(currency PollCurrency) (*Supply, lib.ErrorI) {
	bz, err := l.s.Get(KeyForSupply(currency))
	if err != nil {
		return nil, err
	}
	supply := &Supply{Currency: currency}
	if err = lib.Unmarshal(bz, supply); err != nil {
		return nil, err
	}
	return supply, nil
}

// SetSupply() upserts the supply of a currency
func (l *StateLedger) SetSupply(supply *Supply) lib.ErrorI {
	bz, err := lib.Marshal(supply)
	if err != nil {
		return err
	}
	return l.s.Set(KeyForSupply(supply.Currency), bz)
}

// TotalIssuance() returns the supply of the asset
func (l *StateLedger) TotalIssuance(assetId uint32) (uint64, lib.ErrorI) {
	supply, err := l.GetSupply(AssetCurrency(assetId))
	if err != nil {
		return 0, err
	}
	return supply.Total, nil
}
