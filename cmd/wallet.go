/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/payments"
)

var (
	banksCountry string

	verifyTransactionID string
	verifyTxRef         string
	verifyAmount        float64
)

// banksCmd represents the banks command
var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List banks available for withdrawals",
	RunE:  runBanks,
}

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <account-number> <bank-code>",
	Short: "Resolve an account number to its holder's name",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

// verifyPaymentCmd represents the verify-payment command
var verifyPaymentCmd = &cobra.Command{
	Use:   "verify-payment",
	Short: "Verify a wallet funding transaction",
	Long: `Confirm a funding transaction with the payments gateway after a
checkout redirect and print the new wallet balance.`,
	RunE: runVerifyPayment,
}

func init() {
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(verifyPaymentCmd)

	banksCmd.Flags().StringVar(&banksCountry, "country", "", "two-letter country code (default from config)")

	verifyPaymentCmd.Flags().StringVar(&verifyTransactionID, "transaction-id", "", "gateway transaction id")
	verifyPaymentCmd.Flags().StringVar(&verifyTxRef, "tx-ref", "", "merchant transaction reference")
	verifyPaymentCmd.Flags().Float64Var(&verifyAmount, "amount", 0, "expected amount")
	_ = verifyPaymentCmd.MarkFlagRequired("transaction-id")
	_ = verifyPaymentCmd.MarkFlagRequired("tx-ref")
	_ = verifyPaymentCmd.MarkFlagRequired("amount")
}

func paymentsClient() (*payments.Client, error) {
	cfg := GetConfig().Payments
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no payments gateway configured; set payments.baseUrl in config")
	}
	return payments.NewClient(payments.Config{
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})
}

func runBanks(cmd *cobra.Command, args []string) error {
	client, err := paymentsClient()
	if err != nil {
		return err
	}

	country := banksCountry
	if country == "" {
		country = GetConfig().Payments.Country
	}

	banks, err := client.ListBanks(cmd.Context(), country)
	if err != nil {
		return err
	}
	for _, b := range banks {
		fmt.Printf("%-6s %s\n", b.Code, b.Name)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	client, err := paymentsClient()
	if err != nil {
		return err
	}

	name, err := client.ResolveAccount(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

func runVerifyPayment(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}
	client, err := paymentsClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := client.VerifyPayment(ctx, payments.VerifyPaymentRequest{
		TransactionID:  verifyTransactionID,
		TxRef:          verifyTxRef,
		UserID:         uid,
		ExpectedAmount: verifyAmount,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Payment confirmed. New balance: %.2f\n", result.NewBalance)
	return nil
}
