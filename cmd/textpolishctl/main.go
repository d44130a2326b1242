// textpolishctl — утилиты развёртывания textpolish:
// начальные учётные записи и открытие приложения в браузере.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "textpolishctl",
	Short:         "Утилиты развёртывания textpolish",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newSeedUsersCmd())
	rootCmd.AddCommand(newOpenBrowserCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ エラー: %v\n", err)
		os.Exit(1)
	}
}
