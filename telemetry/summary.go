package telemetry

// ResultSummary aggregates recorded results for one winner label.
type ResultSummary struct {
	Species   string  `csv:"species"`
	Wins      int     `csv:"wins"`
	MeanTurns float64 `csv:"mean_turns"`
	StdTurns  float64 `csv:"std_turns"`
	MinTurns  int     `csv:"min_turns"`
	MaxTurns  int     `csv:"max_turns"`
}

// SummarizeResults groups records by winner, in order of first appearance.
func SummarizeResults(records []ResultRecord) []ResultSummary {
	var order []string
	turns := make(map[string][]float64)
	for _, r := range records {
		if _, seen := turns[r.Species]; !seen {
			order = append(order, r.Species)
		}
		turns[r.Species] = append(turns[r.Species], float64(r.Turns))
	}

	out := make([]ResultSummary, 0, len(order))
	for _, species := range order {
		values := turns[species]
		mean, std, lo, hi := ComputeHealthStats(values)
		s := ResultSummary{
			Species:   species,
			Wins:      len(values),
			MeanTurns: mean,
			StdTurns:  std,
			MinTurns:  int(lo),
			MaxTurns:  int(hi),
		}
		out = append(out, s)
	}
	return out
}
