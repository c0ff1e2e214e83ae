package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealhound/dealhound/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
)

var cfgFile string

// defaultFeeds are the category feeds collected when no config overrides
// them. Each entry is url|category.
var defaultFeeds = []map[string]string{
	{"url": "https://www.dealnews.com/c142/Electronics/?rss=1", "category": "Electronics"},
	{"url": "https://www.dealnews.com/c39/Computers/?rss=1", "category": "Computers"},
	{"url": "https://www.dealnews.com/c238/Automotive/?rss=1", "category": "Automotive"},
	{"url": "https://www.dealnews.com/f1912/Smart-Home/?rss=1", "category": "Smart Home"},
	{"url": "https://www.dealnews.com/c196/Home-Garden/?rss=1", "category": "Home & Garden"},
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dealhound",
	Short: "A deal scraper that turns RSS feed entries into valuation-ready records.",
	Long: `dealhound collects deal entries from public RSS feeds, follows each
entry's link, and extracts the destination page into a clean details/features
record ready for downstream valuation.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dealhound.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".dealhound")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.dealhound.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("feeds", defaultFeeds)
	viper.SetDefault("collect.concurrency", 1)
	viper.SetDefault("collect.rate_ms", 500)
	viper.SetDefault("dbpath", "dealhound.sqlite")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
