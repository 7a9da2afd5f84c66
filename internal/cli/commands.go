// Package cli implements the pulseboard command line interface. Commands
// talk to the Pulseboard API through the gateway client and keep session
// state in a YAML config file under the user's config directory.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

// ErrAlreadyHandled marks errors whose output was already printed by the
// command itself; Execute only sets the exit code for them.
var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulseboard [command] [flags]",
	Short: "Pulseboard CLI - a command line console for the Pulseboard API",
	Long: `Pulseboard CLI is a command line console for managing Pulseboard
users, orders, and products, and for inspecting analytics.

Examples:
  # Sign in
  pulseboard login --email admin@pulseboard.io

  # List users
  pulseboard users list --role admin

  # Inspect an order
  pulseboard orders get 0198f3a2-...

  # Show the landing dashboard
  pulseboard dashboard`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newOrdersCmd())
	rootCmd.AddCommand(newProductsCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newAnalyticsCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			kv := map[string]string{
				"error": err.Error(),
			}
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents handles persistent flags and configuration loading before command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Commands that inspect or create configuration run without one.
	standalone := false
	c := cmd
	for c != nil {
		if c.Name() == "config" || c.Name() == "version" || c.Name() == "status" {
			standalone = true
			break
		}
		c = c.Parent()
	}

	if !standalone {
		if err := LoadConfig(configFile); err != nil {
			if os.IsNotExist(errors.Unwrap(err)) || os.IsNotExist(err) {
				fmt.Println("Pulseboard config file not found. Configure pulseboard with \"pulseboard config create\" first.")
				os.Exit(1)
			}
			fmt.Printf("%s\n", err.Error())
			os.Exit(1)
		}
	}
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pulseboard-cli",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			if jsonOutput {
				kv := map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				}
				printJSON(kv)
			} else {
				cmd.Printf("pulseboard CLI %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints the given map as JSON to stdout
func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.3.0"
}
