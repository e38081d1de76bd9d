package entity

import "fmt"

type Stats struct {
	Total          int           `json:"total"`
	ByStage        map[Stage]int `json:"by_stage"`
	ConversionRate string        `json:"conversion_rate"`
}

// ComputeStats counts leads per stage and the won share with one decimal.
func ComputeStats(leads []Lead) Stats {
	byStage := make(map[Stage]int, len(stageTitles))
	for _, s := range Stages() {
		byStage[s] = 0
	}
	for _, l := range leads {
		if _, ok := byStage[l.Stage]; ok {
			byStage[l.Stage]++
		}
	}

	rate := "0.0"
	if total := len(leads); total > 0 {
		rate = fmt.Sprintf("%.1f", float64(byStage[StageWon])/float64(total)*100)
	}

	return Stats{
		Total:          len(leads),
		ByStage:        byStage,
		ConversionRate: rate,
	}
}
