package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/domain"
)

type emiOutput struct {
	Principal     int64   `json:"principal"`
	Rate          float64 `json:"rate"`
	TenureMonths  int     `json:"tenure_months"`
	EMI           float64 `json:"emi"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayable  float64 `json:"total_payable"`
}

func newEMICmd() *cobra.Command {
	var principal int64
	var rate float64
	var tenure int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Compute the monthly installment for a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			emi, err := domain.ComputeEMI(principal, rate, tenure)
			if err != nil {
				return err
			}

			result := emiOutput{
				Principal:     principal,
				Rate:          rate,
				TenureMonths:  tenure,
				EMI:           domain.RoundCurrency(emi),
				TotalInterest: domain.TotalInterest(emi, tenure, principal),
				TotalPayable:  domain.RoundCurrency(emi * float64(tenure)),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "principal: %s\n", domain.FormatRupees(result.Principal))
			_, _ = fmt.Fprintf(out, "rate: %.2f%%\n", result.Rate)
			_, _ = fmt.Fprintf(out, "tenure: %d months\n", result.TenureMonths)
			_, _ = fmt.Fprintf(out, "emi: %s\n", domain.FormatRupeesExact(result.EMI))
			_, _ = fmt.Fprintf(out, "total interest: %s\n", domain.FormatRupeesExact(result.TotalInterest))
			_, _ = fmt.Fprintf(out, "total payable: %s\n", domain.FormatRupeesExact(result.TotalPayable))
			return nil
		},
	}

	cmd.Flags().Int64Var(&principal, "principal", 0, "Loan amount in rupees")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annual interest rate in percent")
	cmd.Flags().IntVar(&tenure, "tenure", 0, "Tenure in months")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("tenure")

	return cmd
}
