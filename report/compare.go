/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strings"

	"chainguard.dev/evalkit/statistics"
)

// Compare renders a markdown comparison of two aggregated variants: one table
// of per-metric summaries, one of element pass rates when any element was
// scored, one of the Welch's t-test outcome, and a closing recommendation
// line.
func Compare(baseline, alternative statistics.AggregatedResult, result statistics.ComparisonResult) string {
	var report strings.Builder
	report.WriteString(fmt.Sprintf("## %s vs %s\n\n", baseline.VariantID, alternative.VariantID))

	metricHeaders := []string{"Metric", baseline.VariantID, alternative.VariantID}
	metricRows := [][]string{
		{"Overall score", statistics.FormatSummary(baseline.OverallScore), statistics.FormatSummary(alternative.OverallScore)},
		{"Tool selection", statistics.FormatSummary(baseline.ToolSelectionScore), statistics.FormatSummary(alternative.ToolSelectionScore)},
		{"Response quality", statistics.FormatSummary(baseline.ResponseQualityScore), statistics.FormatSummary(alternative.ResponseQualityScore)},
		{"Latency (s)", statistics.FormatSummary(baseline.Latency), statistics.FormatSummary(alternative.Latency)},
	}
	report.WriteString(renderTable(metricHeaders, metricRows))
	report.WriteString("\n")

	if elements := elementRows(baseline, alternative); len(elements) > 0 {
		headers := []string{"Element", baseline.VariantID, alternative.VariantID}
		report.WriteString(renderTable(headers, elements))
		report.WriteString("\n")
	}

	improvement := statistics.PercentageImprovement(baseline.OverallScore.Mean, alternative.OverallScore.Mean)
	significant := "no"
	if result.IsSignificant {
		significant = "yes"
	}
	statHeaders := []string{"Statistic", "Value"}
	statRows := [][]string{
		{"Score difference", fmt.Sprintf("%+.3f (%+.1f%%)", result.OverallScoreDifference, improvement)},
		{"p-value", fmt.Sprintf("%.4f", result.PValue)},
		{"Significant", significant},
		{"t-statistic", fmt.Sprintf("%.3f (df %.1f)", result.TStatistic, result.DegreesOfFreedom)},
		{"Effect size (Cohen's d)", fmt.Sprintf("%.3f (%s)", result.EffectSize, result.EffectSizeInterpretation)},
	}
	report.WriteString(renderTable(statHeaders, statRows))
	report.WriteString("\n")

	report.WriteString(recommendationLine(result, baseline.VariantID, alternative.VariantID))
	report.WriteString("\n")
	return report.String()
}

// elementRows builds one row per element ID seen in either variant, with "-"
// where a variant never scored that element.
func elementRows(baseline, alternative statistics.AggregatedResult) [][]string {
	elementSet := make(map[string]struct{})
	for id := range baseline.ElementPassRates {
		elementSet[id] = struct{}{}
	}
	for id := range alternative.ElementPassRates {
		elementSet[id] = struct{}{}
	}

	rows := make([][]string, 0, len(elementSet))
	for _, id := range sortedKeys(elementSet) {
		rows = append(rows, []string{
			id,
			formatPassRate(baseline.ElementPassRates, id),
			formatPassRate(alternative.ElementPassRates, id),
		})
	}
	return rows
}

func formatPassRate(rates map[string]float64, id string) string {
	rate, ok := rates[id]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}

func recommendationLine(result statistics.ComparisonResult, baseline, alternative string) string {
	switch result.Recommendation {
	case statistics.RecommendAdoptAlternative:
		return fmt.Sprintf("Recommendation: adopt %s, which significantly outperforms %s.", alternative, baseline)
	case statistics.RecommendKeepBaseline:
		return fmt.Sprintf("Recommendation: keep %s; %s performs significantly worse.", baseline, alternative)
	default:
		return "Recommendation: inconclusive. The difference is not statistically significant."
	}
}
