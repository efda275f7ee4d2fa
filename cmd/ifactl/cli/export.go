package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/invoice_flow_app/internal/export/xlsx"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an owner's invoice register to an xlsx file",
	Example: `  ifactl export --owner 5f0c... --out invoices.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		out, _ := cmd.Flags().GetString("out")
		if owner == "" {
			return fmt.Errorf("--owner is required")
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		invoices, err := rt.Services.Invoice.ListInvoicesForExport(cmd.Context(), owner)
		if err != nil {
			return err
		}
		data, err := xlsx.InvoiceRegister(invoices)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d invoices to %s\n", len(invoices), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("owner", "", "Owner (user) ID whose invoices are exported")
	exportCmd.Flags().String("out", "invoices.xlsx", "Output file")
}
