package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rbf-calc/domain"
	"rbf-calc/repository"
	"rbf-calc/service"
)

var (
	solveState *stateFlags
	solveJSON  bool
	solveShare string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one variable from the other five",
	Example: `  rbf-calc solve --solve-for repaymentPeriod --factor-rate 1.5 --amount-received 5000
  rbf-calc solve --from-url 'http://localhost:8080/?factorRate=1.4&solveFor=annualRevenue'`,
	RunE: runSolve,
}

func init() {
	solveState = newStateFlags(solveCmd.Flags())
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the result as JSON")
	solveCmd.Flags().StringVar(&solveShare, "share-origin", "http://localhost:8080", "origin of the printed share link")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(os.Stderr); err != nil {
		return err
	}

	input, err := solveState.resolve(cmd.Flags())
	if err != nil {
		return err
	}

	calculator := service.NewCalculatorService(
		repository.NewCalculationRepositoryMemory(1),
		repository.NewMockCache(),
		service.Location{Origin: solveShare, Path: "/"},
	)
	result, err := calculator.Calculate(cmd.Context(), input)
	if err != nil {
		return err
	}

	if solveJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, r domain.CalculationResult) {
	fmt.Fprintf(w, "Solving for %s\n\n", r.SolveFor.Label())
	for _, v := range domain.Solvable {
		marker := " "
		if v == r.SolveFor {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-28s %s\n", marker, v.Label(), r.Formatted[string(v)])
	}
	fmt.Fprintf(w, "  %-28s %s\n", domain.RepaymentObligation.Label(), r.Formatted[string(domain.RepaymentObligation)])
	fmt.Fprintf(w, "  %-28s %s\n", domain.CostOfCapital.Label(), r.Formatted[string(domain.CostOfCapital)])
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Monthly revenue:        $%.2f\n", r.MonthlyRevenue)
	fmt.Fprintf(w, "Monthly payment:        $%.2f\n", r.MonthlyPayment)
	fmt.Fprintf(w, "Repayment period:       %s years\n", r.RepaymentYears)
	fmt.Fprintf(w, "Effective annual rate:  %.2f%%\n", r.EffectiveAnnualRate)
	if r.FactorRateWarning {
		fmt.Fprintln(w, "Warning: factor rate is at or below 1.00x")
	}
	fmt.Fprintf(w, "\nShare: %s\n", r.ShareURL)
}
