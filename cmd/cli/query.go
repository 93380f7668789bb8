package cli

import (
	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the polls node rpc",
}

var (
	pageNumber, perPage, count = 0, 0, 0
	queryCurrency              = ""
)

func init() {
	queryCmd.PersistentFlags().IntVar(&pageNumber, "page-number", 0, "page number on a paginated call")
	queryCmd.PersistentFlags().IntVar(&perPage, "per-page", 0, "number of items per page on a paginated call")
	queryCmd.PersistentFlags().StringVar(&queryCurrency, "currency", "native", "'native' or 'asset:<id>'")
	eventsCmd.Flags().IntVar(&count, "count", 20, "number of latest events, 0 is all of them")
	queryCmd.AddCommand(heightCmd)
	queryCmd.AddCommand(pollCmd)
	queryCmd.AddCommand(pollsCmd)
	queryCmd.AddCommand(pollCountCmd)
	queryCmd.AddCommand(votingRecordCmd)
	queryCmd.AddCommand(potCmd)
	queryCmd.AddCommand(balanceCmd)
	queryCmd.AddCommand(supplyCmd)
	queryCmd.AddCommand(invariantCmd)
	queryCmd.AddCommand(eventsCmd)
}

var (
	heightCmd = &cobra.Command{
		Use:   "height",
		Short: "query the height the node is building",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Height())
		},
	}

	pollCmd = &cobra.Command{
		Use:   "poll <id>",
		Short: "query a poll",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Poll(argToId(args[0])))
		},
	}

	pollsCmd = &cobra.Command{
		Use:   "polls --page-number=1 --per-page=10",
		Short: "query a page of polls, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Polls(lib.PageParams{PageNumber: pageNumber, PerPage: perPage}))
		},
	}

	pollCountCmd = &cobra.Command{
		Use:   "count",
		Short: "query the number of polls ever created",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.PollCount())
		},
	}

	votingRecordCmd = &cobra.Command{
		Use:   "record <address or public key> <poll id>",
		Short: "query the votes of an account on a poll",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.VotingRecord(args[0], argToId(args[1])))
		},
	}

	potCmd = &cobra.Command{
		Use:   "pot --currency=native",
		Short: "query the custody balance of a currency",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pot(getCurrency()))
		},
	}

	balanceCmd = &cobra.Command{
		Use:   "balance <address or public key> --currency=native",
		Short: "query the free balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Balance(args[0], getCurrency()))
		},
	}

	supplyCmd = &cobra.Command{
		Use:   "supply --currency=native",
		Short: "query the minted amount of a currency",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Supply(getCurrency()))
		},
	}

	invariantCmd = &cobra.Command{
		Use:   "invariant --currency=native",
		Short: "compare the pot of a currency to everything it owes",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Invariant(getCurrency()))
		},
	}

	eventsCmd = &cobra.Command{
		Use:   "events --count=20",
		Short: "query the latest committed events",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Events(count))
		},
	}
)

func getCurrency() fsm.PollCurrency {
	c, err := fsm.ParseCurrency(queryCurrency)
	if err != nil {
		l.Fatal(err.Error())
	}
	return c
}
