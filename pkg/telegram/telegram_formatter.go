package telegram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/utils"
)

const maxMessageLen = 4090

// FormatJobSummary formats the per-instrument outcome of a batch job.
func FormatJobSummary(summary dto.JobSummary) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("🗂 *Job:* `%s`\n\n", summary.JobType))
	builder.WriteString(fmt.Sprintf("✅ *Succeeded:* %d\n", summary.Succeeded))
	builder.WriteString(fmt.Sprintf("❌ *Failed:* %d\n", summary.Failed))

	var failed []string
	for _, r := range summary.Results {
		if !r.IsSuccess {
			failed = append(failed, fmt.Sprintf("  - `%s`: %s", r.Symbol, escapeMarkdown(utils.Truncate(r.Error, 120))))
		}
	}
	if len(failed) > 0 {
		builder.WriteString("\n⚠️ *Failures:*\n")
		builder.WriteString(strings.Join(failed, "\n"))
		builder.WriteString("\n")
	}

	if len(summary.Details) > 0 {
		keys := make([]string, 0, len(summary.Details))
		for k := range summary.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		builder.WriteString("\n📊 *Details:*\n")
		for _, k := range keys {
			builder.WriteString(fmt.Sprintf("  - %s: %d\n", escapeMarkdown(k), summary.Details[k]))
		}
	}

	return builder.String()
}

// FormatPredictionsForTelegram formats weekly predictions into one or more
// Markdown messages, each within Telegram's length limit.
func FormatPredictionsForTelegram(predictions []dto.PredictionCandidate) []string {
	if len(predictions) == 0 {
		return []string{"No predictions were generated this week."}
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("🔮 *Weekly Predictions* 🔮\n\n")
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Weekly Predictions Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, p := range predictions {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", p.Symbol))
		entryBuilder.WriteString(fmt.Sprintf("%s *Direction:* %s\n", directionIcon(p.Direction), p.Direction))
		entryBuilder.WriteString(fmt.Sprintf("🎯 *Confidence:* %.0f%%\n", p.Confidence*100))
		entryBuilder.WriteString(fmt.Sprintf("🧭 *Strategy:* `%s`\n", p.Strategy))
		if p.RiskLevel != "" {
			entryBuilder.WriteString(fmt.Sprintf("⚖️ *Risk:* %s\n", escapeMarkdown(p.RiskLevel)))
		}
		entryBuilder.WriteString(fmt.Sprintf("📅 *Target:* %s\n\n", utils.FormatDate(p.TargetDate)))

		entryString := entryBuilder.String()
		if currentMessage.Len()+len(entryString) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entryString)
	}

	messages = append(messages, currentMessage.String())
	return messages
}

// FormatEvaluationReport formats the outcome of an evaluation run.
func FormatEvaluationReport(report dto.EvaluationReport) string {
	var builder strings.Builder

	builder.WriteString("--- 🧮 *Prediction Evaluation* ---\n\n")
	builder.WriteString(fmt.Sprintf("📅 *Week of:* %s\n", report.WeekStart))
	builder.WriteString(fmt.Sprintf("📥 *Due:* %d\n", report.Due))
	builder.WriteString(fmt.Sprintf("✅ *Evaluated:* %d\n", report.Evaluated))
	builder.WriteString(fmt.Sprintf("⏳ *Waiting for prices:* %d\n", report.Skipped))
	if report.Failed > 0 {
		builder.WriteString(fmt.Sprintf("❌ *Failed:* %d\n", report.Failed))
	}

	if len(report.Strategies) > 0 {
		strategies := make([]string, 0, len(report.Strategies))
		for s := range report.Strategies {
			strategies = append(strategies, string(s))
		}
		sort.Strings(strategies)

		builder.WriteString("\n🧭 *By strategy:*\n")
		for _, s := range strategies {
			tally := report.Strategies[entity.Strategy(s)]
			builder.WriteString(fmt.Sprintf("  - `%s`: %d/%d (%.1f%%)\n", s, tally.Correct, tally.Total, tally.Accuracy()))
		}
	}

	builder.WriteString(fmt.Sprintf("\n🎯 *Overall accuracy:* %.1f%%\n", report.OverallAccuracy))
	return builder.String()
}

// FormatErrorAlertMessage formats an unexpected job failure.
func FormatErrorAlertMessage(at time.Time, errType string, errMsg string, data string) string {
	var builder strings.Builder
	builder.WriteString("🚨 *Error Alert* 🚨\n\n")
	builder.WriteString(fmt.Sprintf("*Time:* %s\n", at.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("*Type:* `%s`\n", errType))
	builder.WriteString(fmt.Sprintf("*Message:* %s\n", escapeMarkdown(errMsg)))
	if data != "" {
		builder.WriteString(fmt.Sprintf("*Data:* `%s`\n", utils.Truncate(data, 500)))
	}
	return builder.String()
}

func directionIcon(d entity.Direction) string {
	switch d {
	case entity.DirectionUp:
		return "🟢"
	case entity.DirectionDown:
		return "🔴"
	default:
		return "🟡"
	}
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
