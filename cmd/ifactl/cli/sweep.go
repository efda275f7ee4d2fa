package cli

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

const dateLayout = "2006-01-02"

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Generate the successors of every due recurring invoice",
	Example: `  # Generate everything due now
  ifactl sweep

  # Catch up as if it were the given day
  ifactl sweep --at 2024-07-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := dateFlag(cmd, "at")
		if err != nil {
			return err
		}
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		report, err := rt.Services.Recurring.SweepDueRecurring(cmd.Context(), at)
		if err != nil {
			return err
		}
		return printReport(cmd, report)
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark unpaid invoices past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := dateFlag(cmd, "at")
		if err != nil {
			return err
		}
		today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		report, err := rt.Services.Invoice.MarkOverdue(cmd.Context(), today)
		if err != nil {
			return err
		}
		return printReport(cmd, report)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd, overdueCmd)
	sweepCmd.Flags().String("at", "", "Reference date (format: YYYY-MM-DD, default: now)")
	overdueCmd.Flags().String("at", "", "Reference date (format: YYYY-MM-DD, default: today)")
}

// dateFlag parses a YYYY-MM-DD flag, defaulting to the current UTC time.
func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func printReport(cmd *cobra.Command, report domain.SweepReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
