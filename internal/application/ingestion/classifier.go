package ingestion

import "strings"

// RawTable is an extracted table grid as supplied by the document
// extraction collaborator: one header row plus data rows, all strings.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// TableLabel is the transaction class a table was recognized as
type TableLabel string

const (
	LabelCapitalCall  TableLabel = "capital_call"
	LabelDistribution TableLabel = "distribution"
	LabelAdjustment   TableLabel = "adjustment"
	LabelUnknown      TableLabel = "unknown"
)

// Classification is the classifier verdict for one table. Tables below
// the confidence threshold come back as LabelUnknown and should be queued
// for manual review rather than ingested.
type Classification struct {
	Label      TableLabel `json:"label"`
	Confidence float64    `json:"confidence"`
}

// ConfidenceThreshold is the minimum separation between the best and
// second-best label score for a classification to be accepted.
const ConfidenceThreshold = 0.2

// firstColumnSampleRows bounds how many data rows the fallback scan reads
const firstColumnSampleRows = 10

// Keyword sets per label. Multi-word phrases are more specific, so a
// phrase scores one point per word.
var labelKeywords = map[TableLabel][]string{
	LabelCapitalCall: {
		"capital call",
		"call date",
		"capital contribution",
		"contribution",
		"drawdown",
		"commitment",
		"called capital",
		"takedown",
	},
	LabelDistribution: {
		"distribution",
		"distribution date",
		"return of capital",
		"dividend",
		"recallable",
		"proceeds",
		"realization",
		"carried interest",
	},
	LabelAdjustment: {
		"adjustment",
		"rebalance",
		"clawback",
		"correction",
		"capital call adjustment",
		"recall of distribution",
		"true-up",
	},
}

// labelPriority orders labels most-specific first; ties between labels
// resolve toward the rarer, more specific class.
var labelPriority = []TableLabel{LabelAdjustment, LabelDistribution, LabelCapitalCall}

// ClassifyTable labels a raw table by weighted keyword overlap against its
// header tokens, falling back to first-column content when the headers
// match nothing. It never fails: an unrecognizable table yields
// LabelUnknown with zero confidence.
func ClassifyTable(table RawTable) Classification {
	scores := scoreText(headerText(table))
	if totalScore(scores) == 0 {
		scores = scoreText(firstColumnText(table))
	}

	total := totalScore(scores)
	if total == 0 {
		return Classification{Label: LabelUnknown, Confidence: 0}
	}

	// top label by priority order, then the best strictly lower score
	// as runner-up so an exact tie between two labels still resolves
	top := LabelUnknown
	topScore := 0
	for _, label := range labelPriority {
		if scores[label] > topScore {
			top = label
			topScore = scores[label]
		}
	}
	runnerUp := 0
	for _, label := range labelPriority {
		if label == top {
			continue
		}
		if scores[label] < topScore && scores[label] > runnerUp {
			runnerUp = scores[label]
		}
	}

	confidence := float64(topScore-runnerUp) / float64(total)
	if confidence < ConfidenceThreshold {
		return Classification{Label: LabelUnknown, Confidence: confidence}
	}
	return Classification{Label: top, Confidence: confidence}
}

func scoreText(text string) map[TableLabel]int {
	scores := make(map[TableLabel]int, len(labelKeywords))
	for label, keywords := range labelKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				scores[label] += len(strings.Fields(kw))
			}
		}
	}
	return scores
}

func totalScore(scores map[TableLabel]int) int {
	total := 0
	for _, s := range scores {
		total += s
	}
	return total
}

func headerText(table RawTable) string {
	return strings.ToLower(strings.Join(table.Headers, " | "))
}

func firstColumnText(table RawTable) string {
	var cells []string
	for i, row := range table.Rows {
		if i >= firstColumnSampleRows {
			break
		}
		if len(row) > 0 {
			cells = append(cells, row[0])
		}
	}
	return strings.ToLower(strings.Join(cells, " | "))
}
