package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YASH4-HD/bio-tikz-studio/internal/tikz"
	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

var tikzCmd = &cobra.Command{
	Use:   "tikz",
	Short: "Generate TikZ diagram markup",
	Long: `Generate TikZ markup for biology diagrams: a single styled cell node, a
figure legend from a JSON item list, or one of the ready-made templates.

Examples:
  # A circular cell node with a drop shadow
  biotikz tikz --label "T Cell" --color "#ffaaaa" --shape circle --shadow

  # A receptor using the preset sizing
  biotikz tikz --label "EGFR" --color "#aaddaa" --preset Receptor

  # A ready-made diagram, wrapped as a compilable standalone document
  biotikz tikz --template "CRISPR Workflow" --document

  # A legend from a JSON file: [{"label":"...","color":"#...","shape":"circle","style":"solid"}]
  biotikz tikz --legend legend.json`,
	RunE: runTikz,
}

func init() {
	rootCmd.AddCommand(tikzCmd)

	tikzCmd.Flags().String("label", "Cell", "node label ('\\n' breaks lines)")
	tikzCmd.Flags().String("color", "#a7c7e7", "fill color (#rrggbb)")
	tikzCmd.Flags().String("shape", "circle", "node shape (circle, ellipse, rectangle, double circle)")
	tikzCmd.Flags().String("thickness", figure.LineThick, "line thickness (thin, thick, ultra thick)")
	tikzCmd.Flags().Bool("shadow", false, "add a drop shadow")
	tikzCmd.Flags().String("preset", "", "element preset (Receptor, Nucleus)")
	tikzCmd.Flags().String("template", "", "emit a ready-made template instead (see --list-templates)")
	tikzCmd.Flags().String("legend", "", "emit a legend from a JSON item file instead")
	tikzCmd.Flags().Bool("document", false, "wrap the snippet in a standalone document")
	tikzCmd.Flags().Bool("list-templates", false, "list available template names")
	tikzCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

func runTikz(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tikz.TemplateNames(), "\n"))
		return nil
	}

	body, err := tikzBody(cmd)
	if err != nil {
		return err
	}

	if doc, _ := cmd.Flags().GetBool("document"); doc {
		body = tikz.Document(body)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	}
	if err := os.WriteFile(output, []byte(body+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logger.Info("wrote tikz", "path", output)
	return nil
}

func tikzBody(cmd *cobra.Command) (string, error) {
	if name, _ := cmd.Flags().GetString("template"); name != "" {
		tmpl, ok := tikz.Templates[name]
		if !ok {
			return "", fmt.Errorf("unknown template %q (try --list-templates)", name)
		}
		return tmpl, nil
	}

	if path, _ := cmd.Flags().GetString("legend"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		var items []tikz.LegendItem
		if err := json.Unmarshal(data, &items); err != nil {
			return "", fmt.Errorf("parsing %s: %w", path, err)
		}
		return tikz.Legend(items)
	}

	label, _ := cmd.Flags().GetString("label")
	color, _ := cmd.Flags().GetString("color")
	shape, _ := cmd.Flags().GetString("shape")
	thickness, _ := cmd.Flags().GetString("thickness")
	shadow, _ := cmd.Flags().GetBool("shadow")
	preset, _ := cmd.Flags().GetString("preset")

	return tikz.Cell(tikz.CellOptions{
		Label:     label,
		Color:     color,
		Shape:     shape,
		Thickness: thickness,
		Shadow:    shadow,
		Preset:    preset,
	})
}
