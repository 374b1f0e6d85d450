package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/sqlcoach/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update sqlcoach to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("version")

		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if checkOnly {
			return printUpdateCheck(ctx, checker)
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo sqlcoach update", err)
		}
		return err
	},
}

func printUpdateCheck(ctx context.Context, checker *selfupdate.Checker) error {
	result, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		fmt.Println("Already running the latest version.")
		return nil
	}
	fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
	if result.ReleaseURL != "" {
		fmt.Println(result.ReleaseURL)
	}
	fmt.Println("Run 'sqlcoach update' to install it.")
	return nil
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only check whether an update is available")
	updateCmd.Flags().String("version", "", "Update to a specific release tag instead of the latest")
}
