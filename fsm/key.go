package fsm

import (
	"encoding/binary"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

/* Key.go contains prefix keys logic for the underlying store*/

var (
	pollPrefix      = []byte{1} // store key prefix for polls
	votesPrefix     = []byte{2} // store key prefix for (poll, account) vote records
	pollCountPrefix = []byte{3} // store key prefix for the next poll index
	accountPrefix   = []byte{4} // store key prefix for ledger accounts
	supplyPrefix    = []byte{5} // store key prefix for the supply of each currency
	agendaPrefix    = []byte{6} // store key prefix for scheduled tasks by height
	lookupPrefix    = []byte{7} // store key prefix for the height of a scheduled task
	adminPrefix     = []byte{8} // store key prefix for the root authority set at genesis
)

/*
- Prefixes are used to allow 'grouping' and organization in a schemaless key-value database environment

- Length prefixed append is used to be able to easily separate the segments of a key

- BigEndianEncoding is used for uint64 to accommodate the 'lexicographical' sorting nature of the key-value database

- Vote records are keyed by poll first so all records of a poll are a single prefix
*/
func PollPrefix() []byte                  { return lib.JoinLenPrefix(pollPrefix) }
func KeyForPoll(id uint64) []byte         { return lib.JoinLenPrefix(pollPrefix, formatUint64(id)) }
func VotesPrefix(pollId uint64) []byte    { return lib.JoinLenPrefix(votesPrefix, formatUint64(pollId)) }
func PollCountKey() []byte                { return lib.JoinLenPrefix(pollCountPrefix) }
func AdminKey() []byte                    { return lib.JoinLenPrefix(adminPrefix) }
func AgendaPrefix(height uint64) []byte   { return lib.JoinLenPrefix(agendaPrefix, formatUint64(height)) }
func KeyForLookup(taskKey []byte) []byte  { return lib.JoinLenPrefix(lookupPrefix, taskKey) }
func KeyForSupply(c PollCurrency) []byte  { return lib.JoinLenPrefix(supplyPrefix, c.Bytes()) }
func AccountPrefix(c PollCurrency) []byte { return lib.JoinLenPrefix(accountPrefix, c.Bytes()) }
func KeyForAccountVotes(addr crypto.AddressI, pollId uint64) []byte {
	return lib.JoinLenPrefix(votesPrefix, formatUint64(pollId), addr.Bytes())
}
func KeyForAccount(addr crypto.AddressI, c PollCurrency) []byte {
	return lib.JoinLenPrefix(accountPrefix, c.Bytes(), addr.Bytes())
}
func KeyForAgenda(height uint64, taskKey []byte) []byte {
	return lib.JoinLenPrefix(agendaPrefix, formatUint64(height), taskKey)
}

// TaskKey() is the unique (module tag, poll id) key of the scheduled poll end
func TaskKey(moduleTag string, pollId uint64) []byte {
	return lib.JoinLenPrefix([]byte(moduleTag), formatUint64(pollId))
}

// IdFromKey() extracts the trailing uint64 segment of a poll key
func IdFromKey(k []byte) (uint64, lib.ErrorI) {
	segments, err := lib.DecodeLengthPrefixed(k)
	if err != nil || len(segments) != 2 || len(segments[1]) != 8 {
		return 0, ErrInvalidKey(k)
	}
	return binary.BigEndian.Uint64(segments[1]), nil
}

func formatUint64(u uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return b
}
