package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "submit a polls message to the node rpc",
}

var (
	signer, contentReference, currency = "", "", ""
	goal, start, end                   = uint64(0), uint64(0), uint64(0)
	options                            = uint8(0)
	multipleVotes                      = false
	beneficiaries                      = []string(nil)
)

func init() {
	txCmd.PersistentFlags().StringVar(&signer, "signer", "", "hex address the message acts for, defaults to the development key")
	createPollCmd.Flags().StringVar(&contentReference, "content", "", "ipfs cid of the poll description")
	createPollCmd.Flags().Uint64Var(&goal, "goal", 0, "stake the winning option needs for the poll to finish")
	createPollCmd.Flags().Uint8Var(&options, "options", 2, "number of options")
	createPollCmd.Flags().BoolVar(&multipleVotes, "multiple-votes", false, "allow votes on several options and repeated votes")
	createPollCmd.Flags().StringVar(&currency, "currency", "native", "'native' or 'asset:<id>'")
	createPollCmd.Flags().Uint64Var(&start, "start", 0, "first height votes are accepted, 0 is the current height")
	createPollCmd.Flags().Uint64Var(&end, "end", 0, "height the poll ends")
	createPollCmd.Flags().StringSliceVar(&beneficiaries, "beneficiary", nil, "<address>:<interest in basis points>, repeatable")
	txCmd.AddCommand(createPollCmd)
	txCmd.AddCommand(voteCmd)
	txCmd.AddCommand(removeVoteCmd)
	txCmd.AddCommand(collectCmd)
	txCmd.AddCommand(cancelCmd)
	txCmd.AddCommand(enactCmd)
}

var (
	createPollCmd = &cobra.Command{
		Use:   "create-poll --content=<cid> --goal=<amount> --end=<height>",
		Short: "create a new funding poll",
		Run: func(cmd *cobra.Command, args []string) {
			c, err := fsm.ParseCurrency(currency)
			if err != nil {
				l.Fatal(err.Error())
			}
			raw, err := parseBeneficiaries(beneficiaries)
			if err != nil {
				l.Fatal(err.Error())
			}
			if start == 0 {
				h, e := client.Height()
				if e != nil {
					l.Fatal(e.Error())
				}
				start = *h
			}
			writeToConsole(client.Transaction(&fsm.MessageCreatePoll{Signer: getSigner(), PollParams: fsm.PollParams{
				ContentReference: contentReference,
				Beneficiaries:    raw,
				Goal:             goal,
				OptionsCount:     options,
				MultipleVotes:    multipleVotes,
				Currency:         c,
				Start:            start,
				End:              end,
			}}))
		},
	}

	voteCmd = &cobra.Command{
		Use:   "vote <poll id> <stake per option, comma separated>",
		Short: "stake votes on the options of a poll",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			votes, err := parseVotes(args[1])
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(client.Transaction(&fsm.MessageVote{Signer: getSigner(), PollId: argToId(args[0]), Votes: votes}))
		},
	}

	removeVoteCmd = &cobra.Command{
		Use:   "remove-vote <poll id>",
		Short: "withdraw every vote on an ongoing poll",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(&fsm.MessageRemoveVote{Signer: getSigner(), PollId: argToId(args[0])}))
		},
	}

	collectCmd = &cobra.Command{
		Use:   "collect <poll id>",
		Short: "collect the payouts of a terminal poll",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(&fsm.MessageCollect{Signer: getSigner(), PollId: argToId(args[0])}))
		},
	}

	cancelCmd = &cobra.Command{
		Use:   "cancel <poll id>",
		Short: "cancel an ongoing poll, only its creator may",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(&fsm.MessageEmergencyCancel{Signer: getSigner(), PollId: argToId(args[0])}))
		},
	}

	enactCmd = &cobra.Command{
		Use:   "enact <poll id>",
		Short: "end an ongoing poll now, only the admin may",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(&fsm.MessageEnactPollEnd{Signer: getSigner(), PollId: argToId(args[0])}))
		},
	}
)

// getSigner() returns the --signer address or the development key of the data directory
func getSigner() crypto.Address {
	if signer == "" {
		return devKey.Address
	}
	address, err := crypto.NewAddressFromString(strings.TrimPrefix(signer, "0x"))
	if err != nil {
		l.Fatal(err.Error())
	}
	return address
}

// parseVotes() converts '0,10,5' into a tally
func parseVotes(s string) (fsm.Votes, lib.ErrorI) {
	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	votes := make(fsm.Votes, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, lib.NewError(lib.CodeInvalidArgument, lib.MainModule, fmt.Sprintf("vote %q is not an amount", part))
		}
		votes = append(votes, v)
	}
	return votes, nil
}

// parseBeneficiaries() converts '<address>:<interest>' pairs into raw beneficiaries
func parseBeneficiaries(pairs []string) ([]fsm.RawBeneficiary, lib.ErrorI) {
	list := make([]fsm.RawBeneficiary, 0, len(pairs))
	for _, pair := range pairs {
		address, interest, found := strings.Cut(pair, ":")
		if !found {
			return nil, lib.NewError(lib.CodeInvalidArgument, lib.MainModule, fmt.Sprintf("beneficiary %q isn't <address>:<interest>", pair))
		}
		bp, err := strconv.ParseUint(interest, 10, 32)
		if err != nil {
			return nil, lib.NewError(lib.CodeInvalidArgument, lib.MainModule, fmt.Sprintf("interest %q is not a number", interest))
		}
		list = append(list, fsm.RawBeneficiary{Address: address, Interest: uint32(bp)})
	}
	return list, nil
}

func argToId(arg string) uint64 {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(err.Error())
	}
	return id
}
