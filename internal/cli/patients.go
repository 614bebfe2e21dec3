package cli

import (
	"fmt"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/store"
	"github.com/spf13/cobra"
)

// patientsCmd represents the patients command
var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List patient names found in the claims CSV",
	Long: `List every patient in the claims CSV as "First Last", one per line.
The output feeds selection lists and batch files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		if csvPath != "" {
			cfg.Data.CSVPath = csvPath
		}

		table, err := store.Load(cfg.Data.CSVPath)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}

		for _, name := range table.FullNames() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patientsCmd)

	patientsCmd.Flags().StringVar(&csvPath, "csv", "", "patient claims CSV path")
}
