package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomworks/takeoff/internal/config"
	"github.com/roomworks/takeoff/pkg/takeoff"
)

var (
	analyzeImagePath  string
	analyzeRoomName   string
	analyzeRoomType   string
	analyzeOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one room sketch",
	Long:  "Analyze a room sketch image or PDF and write its measurement record as JSON.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeImagePath, "image", "i", "", "Path to sketch image or PDF (required)")
	analyzeCmd.Flags().StringVarP(&analyzeRoomName, "name", "n", "", "Room name (defaults to the file name)")
	analyzeCmd.Flags().StringVarP(&analyzeRoomType, "type", "t", "", "Room type hint, e.g. kitchen or basement")
	analyzeCmd.Flags().StringVarP(&analyzeOutputPath, "output", "o", "", "Output path for the record JSON (optional)")
	analyzeCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := newTakeoffClient()
	if err != nil {
		return err
	}

	image, err := os.ReadFile(analyzeImagePath)
	if err != nil {
		return fmt.Errorf("read sketch: %w", err)
	}

	name := analyzeRoomName
	if name == "" {
		name = roomNameFromPath(analyzeImagePath)
	}

	section("Room Analysis")
	info("Sketch: %s", analyzeImagePath)
	info("Room: %s", name)

	rec, err := client.Analyze(ctx, takeoff.RoomInput{Name: name, Type: analyzeRoomType, Image: image})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	outputPath := analyzeOutputPath
	if outputPath == "" {
		outputPath = recordPath(analyzeImagePath)
	}
	if err := rec.WriteFile(outputPath); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	printRecordSummary(rec)
	success("Record saved to %s", outputPath)
	return nil
}

// newTakeoffClient loads configuration and builds the library client.
func newTakeoffClient() (*takeoff.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return takeoff.NewClientWithConfig(cfg)
}

func printRecordSummary(rec *takeoff.Record) {
	section("Measurement Summary")
	info("Room: %s", rec.RoomName)
	info("Floor area: %.1f SF", rec.Gross.FloorArea)
	info("Wall area: %.1f SF", rec.Gross.WallArea)
	info("Ceiling height: %.1f ft", rec.Gross.CeilingHeight)
	info("Floor perimeter: %.1f LF", rec.Gross.FloorPerimeter)
	info("Baseboard: %.1f LF", rec.BaseboardLength)
	info("Openings: %d doors, %d windows, %d open areas, %d skylights",
		rec.Inventory.Counts.TotalDoors(),
		rec.Inventory.Counts.Windows,
		rec.Inventory.Counts.OpenAreas,
		rec.Inventory.Counts.Skylights)
	info("Confidence: %s", rec.Confidence)
	if rec.AnalysisNotes != "" {
		info("Notes: %s", rec.AnalysisNotes)
	}
	if rec.RequiresManualInput {
		warn("Record requires manual review")
	}
}

// roomNameFromPath turns "plans/sump_room.pdf" into "sump room".
func roomNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(strings.ReplaceAll(base, "_", " "), "-", " ")
}

func recordPath(imagePath string) string {
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return filepath.Join(filepath.Dir(imagePath), base+"-record.json")
}
