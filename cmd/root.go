package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version of the biotikz tool.
const Version = "1.0.0"

var cfgFile string

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.00",
})

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biotikz",
	Short: "Figure production toolkit for biology papers",
	Long: `biotikz converts vector PDF figures to publication-ready raster images,
assembles multi-panel composite figures, generates TikZ diagram markup, and
checks figures for grayscale/color-vision accessibility.

Examples:
  # Convert PDF figures to 288 DPI PNGs, auto-cropped
  biotikz convert --scale 4 --auto-crop figure1.pdf figure2.pdf

  # Convert a whole batch into one ZIP using a publication profile
  biotikz convert --profile "Nature Journal" -o figures.zip fig1.pdf fig2.pdf

  # Compose panels into a labeled 2-column grid
  biotikz compose --columns 2 --spacing 10 -o composed.png a.png b.png c.png

  # Score a figure's grayscale resilience and write previews
  biotikz check --previews figure.png

  # Generate a TikZ cell diagram
  biotikz tikz --label "T Cell" --color "#ffaaaa" --shape circle

  # Start the HTTP API
  biotikz serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.biotikz.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug-level logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".biotikz" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".biotikz")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if viper.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
}
