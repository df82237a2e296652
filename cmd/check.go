package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YASH4-HD/bio-tikz-studio/internal/access"
	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] figure.png...",
	Short: "Score figures for grayscale and color-vision accessibility",
	Long: `Compute the grayscale resilience score (0-100) of each figure: content at
the luminance extremes survives print reproduction, heavy mid-tone mass is
penalized. With --previews, the grayscale and simulated color-vision
deficiency renditions are written next to each input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("previews", false, "write grayscale and color-vision previews next to each input")
}

func runCheck(cmd *cobra.Command, args []string) error {
	previews, _ := cmd.Flags().GetBool("previews")

	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("opening %s: %w", name, err)
		}
		img, err := figure.LoadImage(f, figure.MaxAccessibilityDim)
		f.Close()
		if err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}

		report := access.Score(img)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f/100 (low %.1f%%, mid %.1f%%, high %.1f%%)\n",
			name, report.Score, report.LowFraction*100, report.MidFraction*100, report.HighFraction*100)

		if !previews {
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		grayPNG, err := figure.EncodePNG(access.Grayscale(img))
		if err != nil {
			return err
		}
		if err := os.WriteFile(stem+"_grayscale.png", grayPNG, 0o644); err != nil {
			return err
		}
		cvdPNG, err := figure.EncodePNG(access.Preview(img))
		if err != nil {
			return err
		}
		if err := os.WriteFile(stem+"_colorblind.png", cvdPNG, 0o644); err != nil {
			return err
		}
		logger.Info("wrote previews", "grayscale", stem+"_grayscale.png", "colorblind", stem+"_colorblind.png")
	}

	return nil
}
