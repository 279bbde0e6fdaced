package main

import (
	"fmt"
	"math"
	"os"

	"scicore/pipeline"
)

func main() {
	// expect 1 argument: demo scenario
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/scicore <scenario>")
		fmt.Println("Scenarios: clinical, sensor, seasonal")
		return
	}
	scenario := os.Args[1]

	var ds *pipeline.Dataset
	switch scenario {
	case "clinical":
		ds = clinicalTrialDataset()
	case "sensor":
		ds = sensorImputationDataset()
	case "seasonal":
		ds = seasonalDemandDataset()
	default:
		panic("Unsupported scenario: " + scenario + ". Options: clinical, sensor, seasonal")
	}

	report, err := pipeline.Run(ds, pipeline.Options{ForecastHorizon: 14, Seed: 42})
	if err != nil {
		panic(err)
	}

	printColumnReports(report)
	printImputationSummary(report)
	printGroupComparisons(report)
	printNWayANOVA(report)
	printForecasts(report)
}

// clinicalTrialDataset is a two-arm dose-response scenario: a response
// column split by a two-level treatment factor.
func clinicalTrialDataset() *pipeline.Dataset {
	placebo := []float64{4.1, 3.8, 4.4, 3.9, 4.2, 4.0, 3.7, 4.3, 4.1, 3.9}
	treated := []float64{6.8, 7.1, 6.5, 7.3, 6.9, 7.0, 6.7, 7.2, 6.9, 7.1}
	response := append(append([]float64{}, placebo...), treated...)
	group := make([]int, len(response))
	for i := range placebo {
		group[i] = 0
	}
	for i := range treated {
		group[len(placebo)+i] = 1
	}
	return &pipeline.Dataset{
		Columns: map[string][]float64{"response": response},
		Factors: map[string][]int{"arm": group},
	}
}

// sensorImputationDataset is a two-sensor reading series with a handful of
// dropped samples, standing in for an instrument logging gap.
func sensorImputationDataset() *pipeline.Dataset {
	n := 60
	temperature := make([]float64, n)
	humidity := make([]float64, n)
	for i := 0; i < n; i++ {
		temperature[i] = 20 + 5*math.Sin(float64(i)/6) + 0.3*float64(i%3)
		humidity[i] = 50 - 10*math.Sin(float64(i)/6) + 0.2*float64(i%5)
	}
	for _, i := range []int{5, 17, 29, 41, 53} {
		temperature[i] = math.NaN()
	}
	for _, i := range []int{8, 22, 44} {
		humidity[i] = math.NaN()
	}
	return &pipeline.Dataset{
		Columns: map[string][]float64{"temperature": temperature, "humidity": humidity},
	}
}

// seasonalDemandDataset is a daily demand series with a weekly cycle and a
// linear trend, for the Prophet-style forecaster.
func seasonalDemandDataset() *pipeline.Dataset {
	n := 90
	t := make([]float64, n)
	demand := make([]float64, n)
	for i := 0; i < n; i++ {
		t[i] = float64(i)
		demand[i] = 100 + 0.8*float64(i) + 15*math.Sin(2*math.Pi*float64(i)/7)
	}
	return &pipeline.Dataset{
		Columns: map[string][]float64{"day": t, "demand": demand},
		TimeCol: "day",
	}
}

func printColumnReports(report *pipeline.Report) {
	for _, cr := range report.Columns {
		fmt.Printf("column %q: mean=%.3f stddev=%.3f n=%d\n", cr.Name, cr.Moments.Mean, cr.Moments.StdDev, cr.Moments.N)
		if cr.BestDistribution != nil {
			fmt.Printf("  best fit: %s (AIC=%.2f, BIC=%.2f, KS=%.4f)\n",
				cr.BestDistribution.Name, cr.BestDistribution.AIC, cr.BestDistribution.BIC, cr.BestDistribution.KSStatistic)
		}
		if cr.MeanBootstrap != nil {
			fmt.Printf("  mean 95%% BCa CI: [%.3f, %.3f]\n", cr.MeanBootstrap.CILower, cr.MeanBootstrap.CIUpper)
		}
	}
}

func printImputationSummary(report *pipeline.Report) {
	if report.Imputation == nil {
		return
	}
	fmt.Printf("imputation: method=%s filled=%d correlation-preservation=%.3f\n",
		report.Imputation.Method, report.Imputation.FilledCells, report.Imputation.Quality.CorrelationPreservation)
}

func printGroupComparisons(report *pipeline.Report) {
	for _, gc := range report.GroupComparisons {
		if gc.TTest != nil {
			fmt.Printf("factor %q vs %q: t=%.3f p=%.4f significant=%v\n",
				gc.FactorName, gc.ValueColumn, gc.TTest.T, gc.TTest.P, gc.TTest.Significant)
		}
		if gc.ANOVA != nil {
			fmt.Printf("factor %q vs %q: F=%.3f p=%.4f eta2=%.3f\n",
				gc.FactorName, gc.ValueColumn, gc.ANOVA.F, gc.ANOVA.P, gc.ANOVA.EtaSquared)
		}
	}
}

func printNWayANOVA(report *pipeline.Report) {
	if report.NWayANOVA == nil {
		return
	}
	for _, e := range report.NWayANOVA.Effects {
		fmt.Printf("effect %q: F=%.3f p=%.4f\n", e.Name, e.F, e.P)
	}
	for _, e := range report.NWayANOVA.Interactions {
		fmt.Printf("interaction %q: F=%.3f p=%.4f\n", e.Name, e.F, e.P)
	}
}

func printForecasts(report *pipeline.Report) {
	for _, fr := range report.Forecasts {
		fmt.Printf("forecast for %q: %d changepoints\n", fr.ValueColumn, len(fr.Model.Changepoints))
		if fr.Prediction != nil {
			last := len(fr.Prediction.Point) - 1
			if len(fr.Prediction.Lower95) > last && len(fr.Prediction.Upper95) > last {
				fmt.Printf("  +%d point forecast: %.2f (95%% [%.2f, %.2f])\n",
					len(fr.Prediction.Point), fr.Prediction.Point[last], fr.Prediction.Lower95[last], fr.Prediction.Upper95[last])
			} else {
				fmt.Printf("  +%d point forecast: %.2f (no interval)\n", len(fr.Prediction.Point), fr.Prediction.Point[last])
			}
		}
	}
}
