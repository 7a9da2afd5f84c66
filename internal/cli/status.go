package cli

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

// supportedAPIVersions is the API version range this CLI build can talk to.
const supportedAPIVersions = ">= 0.1.0, < 0.2.0"

// newStatusCmd creates and returns a new status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get server status and version information",
		Long: `Get server status and version information, and check whether this CLI
build is compatible with the server's API version.

Examples:
  # Get server status
  pulseboard status

  # Get server status in JSON format
  pulseboard status -j`,
		RunE: getStatus,
	}
}

// getStatus handles retrieving server status information
func getStatus(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(configFile); err != nil {
		if jsonOutput {
			printJSON(map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Config file cannot be loaded",
			})
		} else {
			fmt.Printf("pulseboard CLI %s\n", getCLIVersion())
			fmt.Println("Error: Config file cannot be loaded")
		}
		return ErrAlreadyHandled
	}

	svc, err := newAPI()
	if err != nil {
		return err
	}
	status, env := svc.Status(cmd.Context())
	if !env.Success {
		if jsonOutput {
			printJSON(map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Unable to connect to server: " + env.ErrorMessage(),
			})
		} else {
			fmt.Printf("pulseboard CLI %s\n", getCLIVersion())
			fmt.Println("Error: Unable to connect to server: " + env.ErrorMessage())
		}
		return ErrAlreadyHandled
	}

	compatible, compatErr := apiVersionCompatible(status.APIVersion)

	if jsonOutput {
		output := map[string]any{
			"version_cli": getCLIVersion(),
			"value":       status,
			"compatible":  compatible,
		}
		if compatErr != nil {
			output["compatibility_error"] = compatErr.Error()
		}
		printJSON(output)
		return nil
	}

	fmt.Printf("pulseboard CLI %s\n", getCLIVersion())
	fmt.Printf("Server version: %s\n", status.ServerVersion)
	fmt.Printf("API version: %s\n", status.APIVersion)
	fmt.Printf("Server time: %s\n", status.ServerTime)
	if compatible {
		okLabel.Println("✓ CLI is compatible with this server")
	} else {
		errorLabel.Printf("✗ CLI is not compatible with this server (requires %s)\n", supportedAPIVersions)
	}
	return nil
}

// apiVersionCompatible checks the server's API version against the range
// this build supports.
func apiVersionCompatible(version string) (bool, error) {
	constraint, err := semver.NewConstraint(supportedAPIVersions)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid API version %q: %w", version, err)
	}
	return constraint.Check(v), nil
}
