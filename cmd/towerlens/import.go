package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/towerlens/towerlens/internal/cli"
	"github.com/towerlens/towerlens/internal/importer"
)

func importDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import portfolio data from a CSV file",
		Long: `Import towers, contracts, landlords, or payments from a CSV file.

Rows are validated and normalized before they are stored; rows already in the
database (same content) are skipped automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("type", "t", "", "data type: tower, contract, landlord, payment (required)")
	cmd.Flags().Bool("validate-only", false, "validate the file without importing")
	cmd.Flags().Int("batch-size", 50, "rows per storage batch")

	_ = cmd.MarkFlagRequired("type")
	_ = viper.BindPFlag("import.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dataTypeStr, _ := cmd.Flags().GetString("type")
	dataType := importer.DataType(dataTypeStr)

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if validateOnly, _ := cmd.Flags().GetBool("validate-only"); validateOnly {
		result, err := importer.Validate(file, dataType)
		if err != nil {
			return err
		}
		printValidation(result)
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Importing %s data from %s", dataType, args[0])))

	var bar *progressbar.ProgressBar
	opts := importer.Options{
		BatchSize: viper.GetInt("import.batch_size"),
		OnProgress: func(processed, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Importing..."),
				)
			}
			_ = bar.Set(processed)
		},
	}

	result, validation, err := importer.New(store).Import(ctx, file, dataType, opts)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	printValidation(validation)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Import complete: %d imported, %d skipped, %d failed",
		result.Imported, result.Skipped, result.Failed)))

	return nil
}

func printValidation(result *importer.ValidationResult) {
	for _, e := range result.Errors {
		switch e.Severity {
		case importer.SeverityCritical:
			fmt.Println(cli.FormatError(e.Error()))
		case importer.SeverityMajor:
			fmt.Println(cli.FormatWarning(e.Error()))
		default:
			fmt.Println(cli.FormatInfo(e.Error()))
		}
	}

	content := fmt.Sprintf("Rows: %d\nValid: %d\nInvalid: %d",
		result.Summary.Total, result.Summary.Valid, result.Summary.Invalid)
	fmt.Println(cli.RenderBox("Validation Summary", content))
}
