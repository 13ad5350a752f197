package service

import (
	"errors"
	"math"
	"strings"
	"testing"

	"rbf-calc/domain"
)

var testLocation = Location{Origin: "http://localhost:3000", Path: "/"}

type recordingHistory struct {
	urls []string
	err  error
}

func (h *recordingHistory) ReplaceState(url string) error {
	h.urls = append(h.urls, url)
	return h.err
}

func TestEncodeURL_WithSelector(t *testing.T) {

	got := EncodeURL(testLocation, map[string]float64{
		"factorRate":     1.5,
		"amountReceived": 5000,
	}, domain.FactorRate)

	expected := "http://localhost:3000/?amountReceived=5000&factorRate=1.5&solveFor=factorRate"
	if got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestEncodeURL_OmitsMissingKeys(t *testing.T) {

	got := EncodeURL(testLocation, map[string]float64{
		"factorRate":     1.5,
		"amountReceived": 5000,
		"profitMargin":   16,
		"annualRevenue":  22000,
	}, "")

	for _, want := range []string{"factorRate=1.5", "amountReceived=5000", "profitMargin=16", "annualRevenue=22000"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
	for _, absent := range []string{"revenueShareRate=", "repaymentPeriod=", "solveFor="} {
		if strings.Contains(got, absent) {
			t.Errorf("did not expect %s in %s", absent, got)
		}
	}
}

func TestEncodeURL_DecimalValues(t *testing.T) {

	got := EncodeURL(testLocation, map[string]float64{
		"factorRate":       1.25,
		"amountReceived":   5000.50,
		"revenueShareRate": 5.75,
		"repaymentPeriod":  24.5,
		"profitMargin":     16.25,
		"annualRevenue":    22000.75,
		"huge":             1e21,
	}, "")

	for _, want := range []string{
		"factorRate=1.25",
		"amountReceived=5000.5",
		"revenueShareRate=5.75",
		"repaymentPeriod=24.5",
		"profitMargin=16.25",
		"annualRevenue=22000.75",
		"huge=1000000000000000000000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestEncodeURL_InfiniteValues(t *testing.T) {

	got := EncodeURL(testLocation, map[string]float64{
		"amountReceived": math.Inf(1),
		"factorRate":     math.Inf(-1),
	}, "")

	for _, want := range []string{"amountReceived=Infinity", "factorRate=-Infinity"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, "%2BInf") {
		t.Errorf("unexpected +Inf in %s", got)
	}
}

func TestEncodeURL_EmptyValues(t *testing.T) {

	got := EncodeURL(testLocation, nil, domain.RepaymentPeriod)

	if got != "http://localhost:3000/?solveFor=repaymentPeriod" {
		t.Errorf("unexpected url %s", got)
	}
}

func TestDecodeURL_Numbers(t *testing.T) {

	params := DecodeURL("?factorRate=1.25&amountReceived=5000.5")

	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	if n, ok := params.Number("factorRate"); !ok || n != 1.25 {
		t.Errorf("expected factorRate 1.25, got %v (numeric=%v)", n, ok)
	}
	if n, ok := params.Number("amountReceived"); !ok || n != 5000.5 {
		t.Errorf("expected amountReceived 5000.5, got %v (numeric=%v)", n, ok)
	}
}

func TestDecodeURL_KeepsTextValues(t *testing.T) {

	params := DecodeURL("solveFor=factorRate&note=abc&blank=&inf=Infinity")

	if pv := params["solveFor"]; pv.Numeric || pv.Raw != "factorRate" {
		t.Errorf("expected solveFor to stay text, got %+v", pv)
	}
	if pv := params["note"]; pv.Numeric || pv.Raw != "abc" {
		t.Errorf("expected note to stay text, got %+v", pv)
	}
	if n, ok := params.Number("blank"); !ok || n != 0 {
		t.Errorf("expected blank to coerce to 0, got %v (numeric=%v)", n, ok)
	}
	if pv := params["inf"]; pv.Numeric {
		t.Errorf("expected non-finite text to stay text, got %+v", pv)
	}
}

func TestDecodeURL_NeverFails(t *testing.T) {

	if got := DecodeURL(""); len(got) != 0 {
		t.Errorf("expected no params, got %v", got)
	}

	params := DecodeURL("bad=%zz&factorRate=2&factorRate=3")
	if n, ok := params.Number("factorRate"); !ok || n != 3 {
		t.Errorf("expected the last factorRate to win, got %v", n)
	}
}

func TestParams_VariableSetFallsBackToDefaults(t *testing.T) {

	vs := DecodeURL("factorRate=1.5&amountReceived=8000&annualRevenue=oops").VariableSet()

	expected := domain.DefaultVariableSet()
	expected.AmountReceived = 8000
	if vs != expected {
		t.Errorf("expected %+v, got %+v", expected, vs)
	}
}

func TestParams_Selector(t *testing.T) {

	tests := map[string]domain.Variable{
		"":                       domain.RepaymentPeriod,
		"solveFor=annualRevenue": domain.AnnualRevenue,
		"solveFor=costOfCapital": domain.RepaymentPeriod,
		"solveFor=42":            domain.RepaymentPeriod,
	}

	for query, expected := range tests {
		if got := DecodeURL(query).Selector(); got != expected {
			t.Errorf("%q: expected %s, got %s", query, expected, got)
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {

	vs := domain.VariableSet{
		FactorRate:       1.375,
		AmountReceived:   12345.67,
		RevenueShareRate: 7.5,
		RepaymentPeriod:  30.25,
		ProfitMargin:     12,
		AnnualRevenue:    480000,
	}

	loc, rawQuery, err := ParseLocation(EncodeState(testLocation, vs, domain.RevenueShareRate))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != testLocation {
		t.Errorf("expected location %+v, got %+v", testLocation, loc)
	}

	params := DecodeURL(rawQuery)
	if got := params.VariableSet(); got != vs {
		t.Errorf("expected %+v, got %+v", vs, got)
	}
	if got := params.Selector(); got != domain.RevenueShareRate {
		t.Errorf("expected revenueShareRate, got %s", got)
	}
}

func TestApplyURL(t *testing.T) {

	history := &recordingHistory{}

	ApplyURL(history, testLocation, map[string]float64{"factorRate": 1.5}, domain.FactorRate)

	if len(history.urls) != 1 {
		t.Fatalf("expected one history write, got %d", len(history.urls))
	}
	if history.urls[0] != "http://localhost:3000/?factorRate=1.5&solveFor=factorRate" {
		t.Errorf("unexpected url %s", history.urls[0])
	}
}

func TestApplyURL_WithoutHistory(t *testing.T) {

	ApplyURL(nil, testLocation, map[string]float64{"factorRate": 1.5}, "")

	failing := &recordingHistory{err: errors.New("not allowed")}
	ApplyURL(failing, testLocation, map[string]float64{"factorRate": 1.5}, "")

	if len(failing.urls) != 1 {
		t.Errorf("expected the write to be attempted once, got %d", len(failing.urls))
	}
}
