package cli

import (
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "manage development keys",
}

func init() {
	keysCmd.AddCommand(newKeyCmd)
}

var newKeyCmd = &cobra.Command{
	Use:   "new",
	Short: "generate an ed25519 key pair and print it with its address",
	Run: func(cmd *cobra.Command, args []string) {
		k, err := NewDevKey()
		if err != nil {
			l.Fatal(err.Error())
		}
		writeToConsole(k, nil)
	},
}
