package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomworks/takeoff/pkg/takeoff"
)

var (
	batchDir      string
	batchOutDir   string
	batchRoomType string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every sketch in a directory",
	Long: `Analyze all sketch images and PDFs in a directory concurrently and
write one measurement record per room. Exits non-zero when any record
requires manual review.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory of sketch files (required)")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Output directory for record JSON (defaults to the input directory)")
	batchCmd.Flags().StringVarP(&batchRoomType, "type", "t", "", "Room type hint applied to every sketch")
	batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	client, err := newTakeoffClient()
	if err != nil {
		return err
	}

	paths, err := sketchPaths(batchDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no sketch files found in %s", batchDir)
	}

	outDir := batchOutDir
	if outDir == "" {
		outDir = batchDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	section("Batch Analysis")
	info("Sketches: %d", len(paths))
	info("Output: %s", outDir)

	inputs := make([]takeoff.RoomInput, 0, len(paths))
	for _, path := range paths {
		image, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, takeoff.RoomInput{
			Name:  roomNameFromPath(path),
			Type:  batchRoomType,
			Image: image,
		})
	}

	records, err := client.AnalyzeBatch(ctx, inputs)
	if err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}

	needsReview := 0
	for i, rec := range records {
		if err := rec.WriteFile(recordPath(filepath.Join(outDir, filepath.Base(paths[i])))); err != nil {
			return fmt.Errorf("write record for %s: %w", paths[i], err)
		}
		if rec.RequiresManualInput {
			needsReview++
			warn("%s requires manual review", rec.RoomName)
		} else {
			success("%s (%.1f SF, confidence %s)", rec.RoomName, rec.Gross.FloorArea, rec.Confidence)
		}
	}

	if needsReview > 0 {
		return fmt.Errorf("%d of %d rooms require manual review", needsReview, len(records))
	}
	success("All %d rooms analyzed", len(records))
	return nil
}

// sketchPaths lists supported sketch files in a directory, sorted by name.
func sketchPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".pdf":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
