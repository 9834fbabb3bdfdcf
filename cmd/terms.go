/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/onboarding"
)

// currentTermsVersion is bumped whenever the terms of service change.
const currentTermsVersion = 2

// termsCmd represents the terms command
var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage terms-of-service acknowledgment",
}

var termsAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Record acceptance of the current terms version",
	RunE:  runTermsAccept,
}

var termsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the current terms version is accepted",
	RunE:  runTermsStatus,
}

func init() {
	rootCmd.AddCommand(termsCmd)
	termsCmd.AddCommand(termsAcceptCmd)
	termsCmd.AddCommand(termsStatusCmd)
}

func runTermsAccept(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}

	ledger := onboarding.NewLedger(app.Namespace)
	if err := ledger.Accept(uid, currentTermsVersion); err != nil {
		return err
	}
	fmt.Printf("Accepted terms v%d for %s\n", currentTermsVersion, uid)
	return nil
}

func runTermsStatus(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}

	ledger := onboarding.NewLedger(app.Namespace)
	if ledger.HasAccepted(uid, currentTermsVersion) {
		fmt.Printf("%s has accepted terms v%d\n", uid, currentTermsVersion)
	} else {
		fmt.Printf("%s has not accepted terms v%d\n", uid, currentTermsVersion)
	}
	return nil
}
