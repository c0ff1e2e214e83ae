package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealhound/dealhound/pkg/deals"
	"github.com/dealhound/dealhound/pkg/storage"
)

// oppsCmd groups subcommands over the opportunity store.
var oppsCmd = &cobra.Command{
	Use:   "opps",
	Short: "Interact with stored opportunities",
}

var oppsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored opportunities in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = viper.GetString("dbpath")
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		opps, err := db.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(opps) == 0 {
			fmt.Println("No opportunities stored yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRICE\tESTIMATE\tDISCOUNT\tPRODUCT\tURL")
		for _, opp := range opps {
			fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\t%s\t%s\n",
				opp.Deal.Price, opp.Estimate, opp.Discount, opp.Deal.ProductDescription, opp.Deal.URL)
		}
		return w.Flush()
	},
}

var oppsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an opportunity for a valued deal",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = viper.GetString("dbpath")
		}

		description, _ := cmd.Flags().GetString("description")
		price, _ := cmd.Flags().GetFloat64("price")
		url, _ := cmd.Flags().GetString("url")
		estimate, _ := cmd.Flags().GetFloat64("estimate")

		deal, err := deals.NewDeal(description, price, url)
		if err != nil {
			return err
		}
		opp := deals.NewOpportunity(deal, estimate)

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Append(cmd.Context(), opp); err != nil {
			return err
		}

		fmt.Printf("Stored opportunity: %s at %.2f (estimate %.2f, discount %.2f)\n",
			opp.Deal.ProductDescription, opp.Deal.Price, opp.Estimate, opp.Discount)
		return nil
	},
}

func init() {
	oppsCmd.PersistentFlags().String("dbpath", "", "Path to the sqlite database (default from config)")
	oppsAddCmd.Flags().String("description", "", "Product description")
	oppsAddCmd.Flags().Float64("price", 0, "Advertised price")
	oppsAddCmd.Flags().String("url", "", "Deal URL")
	oppsAddCmd.Flags().Float64("estimate", 0, "Estimated market value")
	oppsCmd.AddCommand(oppsListCmd, oppsAddCmd)
	rootCmd.AddCommand(oppsCmd)
}
