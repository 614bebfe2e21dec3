package cli

import (
	"fmt"

	"github.com/claimforge/claimforge/internal/form"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/spf13/cobra"
)

var fieldsTemplatePath string

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the form field names in the UB-04 template",
	Long: `Fields prints every AcroForm widget name found in the PDF template,
one per line. Use it to check which names the filler can address when the
template changes.`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)

	fieldsCmd.Flags().StringVar(&fieldsTemplatePath, "template", "", "UB-04 PDF template path")
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	if fieldsTemplatePath != "" {
		cfg.Form.TemplatePath = fieldsTemplatePath
	}

	filler := form.NewFiller(cfg.Form.TemplatePath)
	names, err := filler.ListFields()
	if err != nil {
		return fmt.Errorf("list template fields: %w", err)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\n%d fields\n", len(names))

	return nil
}
