// Command brightpathctl is the operator CLI for the platform's event-driven core: inspecting the
// idempotency ledger and allocation state, and replaying dead-lettered records after a fix, the
// minimal operability surface spec §4.2's dead-letter routing implies but never specifies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brightpathctl",
	Short: "Operator CLI for the brightpath event-driven core",
	Long: `brightpathctl inspects and repairs the platform's event-driven core:
the idempotency ledger, allocation state, and the dead-letter queue.`,
}

func init() {
	rootCmd.PersistentFlags().String("db-dsn", "", "Postgres DSN (overrides --db-host etc)")
	rootCmd.PersistentFlags().String("db-host", "localhost", "Postgres host")
	rootCmd.PersistentFlags().String("db-port", "5432", "Postgres port")
	rootCmd.PersistentFlags().String("db-user", "brightpath", "Postgres user")
	rootCmd.PersistentFlags().String("db-password", "", "Postgres password")
	rootCmd.PersistentFlags().String("db-name", "brightpath", "Postgres database name")
	rootCmd.PersistentFlags().StringSlice("kafka-brokers", []string{"localhost:9092"}, "Kafka-compatible broker addresses")

	rootCmd.AddCommand(ledgerInspectCmd)
	rootCmd.AddCommand(allocationInspectCmd)
	rootCmd.AddCommand(replayDLQCmd)
}
