package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/geometry"
	"github.com/roomworks/takeoff/internal/quantity"
)

var (
	quantitiesRecordPath string
	quantitiesScopePath  string
	quantitiesMaterial   string
)

var quantitiesCmd = &cobra.Command{
	Use:   "quantities",
	Short: "Compute material quantities for a measurement record",
	Long: `Derive net geometry from a saved measurement record and compute the
material takeoff table for a work scope. No API access is needed.`,
	RunE: runQuantities,
}

func init() {
	quantitiesCmd.Flags().StringVarP(&quantitiesRecordPath, "record", "r", "", "Path to a measurement record JSON (required)")
	quantitiesCmd.Flags().StringVarP(&quantitiesScopePath, "scope", "s", "", "Path to a work scope YAML file (required)")
	quantitiesCmd.Flags().StringVarP(&quantitiesMaterial, "material", "m", "", "Flooring material override (carpet, vinyl, laminate, tile, hardwood)")
	quantitiesCmd.MarkFlagRequired("record")
	quantitiesCmd.MarkFlagRequired("scope")
	rootCmd.AddCommand(quantitiesCmd)
}

func runQuantities(cmd *cobra.Command, args []string) error {
	rec, err := domain.ReadRecordFile(quantitiesRecordPath)
	if err != nil {
		return err
	}

	scope, err := loadScope(quantitiesScopePath)
	if err != nil {
		return err
	}
	if quantitiesMaterial != "" {
		scope.FlooringMaterial = domain.FlooringMaterial(quantitiesMaterial)
	}

	factors, err := loadFactors(cfgFile)
	if err != nil {
		return err
	}

	net := geometry.Derive(rec.Gross, rec.Inventory)
	items := quantity.Compute(net, rec.Gross, scope, factors)

	section(fmt.Sprintf("Quantities for %s", rec.RoomName))
	info("Net floor area: %.1f SF", net.FloorArea)
	info("Net wall area: %.1f SF", net.WallArea)
	info("Net floor perimeter: %.1f LF", net.FloorPerimeter)
	fmt.Println()

	if len(items) == 0 {
		warn("No quantities for the selected scope")
		return nil
	}
	for _, item := range items {
		info("%-12s %-18s %10.1f %-3s (waste %.0f%%)",
			item.Category, item.Item, item.Quantity, item.Unit, item.WasteFactor*100)
	}
	if rec.RequiresManualInput {
		warn("Record is flagged for manual review; quantities may be unreliable")
	}
	return nil
}

func loadScope(path string) (domain.WorkScope, error) {
	var scope domain.WorkScope
	data, err := os.ReadFile(path)
	if err != nil {
		return scope, fmt.Errorf("read scope file: %w", err)
	}
	if err := yaml.Unmarshal(data, &scope); err != nil {
		return scope, fmt.Errorf("parse scope file: %w", err)
	}
	return scope, nil
}

// loadFactors reads waste factors from the config file when one is given.
// Unlike analysis, quantities need no API key, so the full config loader
// with its key requirement is not used here.
func loadFactors(path string) (quantity.Factors, error) {
	factors := quantity.DefaultFactors()
	if path == "" {
		return factors, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return factors, fmt.Errorf("read config file: %w", err)
	}
	var cfg struct {
		Factors quantity.Factors `yaml:"waste_factors"`
	}
	cfg.Factors = factors
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return factors, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Factors.Flooring == nil {
		cfg.Factors.Flooring = factors.Flooring
	}
	return cfg.Factors, nil
}
