package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"rbf-calc/domain"
)

func TestFlagName(t *testing.T) {

	if got := flagName(domain.RevenueShareRate); got != "revenue-share-rate" {
		t.Errorf("expected revenue-share-rate, got %s", got)
	}
}

func TestStateFlags_FlagsOverrideURL(t *testing.T) {

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	sf := newStateFlags(fs)

	err := fs.Parse([]string{
		"--from-url", "http://localhost:8080/?factorRate=1.3&amountReceived=9000&solveFor=annualRevenue",
		"--amount-received", "12000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input, err := sf.resolve(fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Values.FactorRate != 1.3 || input.Values.AmountReceived != 12000 {
		t.Errorf("unexpected values %+v", input.Values)
	}
	if input.Values.RevenueShareRate != 5 {
		t.Errorf("expected the default share rate, got %v", input.Values.RevenueShareRate)
	}
	if input.SolveFor != domain.AnnualRevenue {
		t.Errorf("expected annualRevenue, got %s", input.SolveFor)
	}
}

func TestStateFlags_UnknownSelector(t *testing.T) {

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	sf := newStateFlags(fs)
	if err := fs.Parse([]string{"--solve-for", "interest"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sf.resolve(fs); err == nil {
		t.Errorf("expected an error for an unknown selector")
	}
}

func TestURLEncodeCommand(t *testing.T) {

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"url", "encode", "--factor-rate", "1.25", "--solve-for", "factorRate", "--origin", "https://calc.example.com"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.TrimSpace(out.String())
	for _, want := range []string{"https://calc.example.com/?", "factorRate=1.25", "solveFor=factorRate"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}
