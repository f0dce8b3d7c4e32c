package agents

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

// Report is an agent result ready for display.
type Report interface {
	Kind() Kind
	Title() string
	Markdown() string
	// Export returns a download file name and its plain text content, or
	// ok=false for results that are only displayed.
	Export(now time.Time) (name, content string, ok bool)
	// Raw returns the decoded backend payload.
	Raw() any
}

type ReputationReport struct{ *platform.ReputationReport }

func (ReputationReport) Kind() Kind { return KindReputation }

func (r ReputationReport) Title() string {
	return "Reputation scan: " + r.CompanyName
}

func (r ReputationReport) Raw() any { return r.ReputationReport }

func (ReputationReport) Export(time.Time) (string, string, bool) { return "", "", false }

// SentimentLabel buckets a 0-10 sentiment score.
func SentimentLabel(score float64) string {
	switch {
	case score >= 7:
		return "positive"
	case score >= 5:
		return "mixed"
	default:
		return "negative"
	}
}

func (r ReputationReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if !r.AnalysisDate.IsZero() {
		fmt.Fprintf(&b, "Analyzed %s\n\n", r.AnalysisDate.Format("Jan 2, 2006 15:04 MST"))
	}
	fmt.Fprintf(&b, "**Sentiment:** %.1f/10 (%s)\n\n", r.SentimentScore, SentimentLabel(r.SentimentScore))

	b.WriteString("| Mentions | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total | %d |\n", r.TotalMentions)
	fmt.Fprintf(&b, "| Positive | %d |\n", r.PositiveMentions)
	fmt.Fprintf(&b, "| Neutral | %d |\n", r.NeutralMentions)
	fmt.Fprintf(&b, "| Negative | %d |\n\n", r.NegativeMentions)

	writeBullets(&b, "Key themes", r.KeyThemes)
	writeSection(&b, "Detailed analysis", r.DetailedAnalysis)
	writeNumbered(&b, "Recommendations", r.Recommendations)
	return b.String()
}

type BriefReport struct{ *platform.Brief }

func (BriefReport) Kind() Kind { return KindBrief }

func (r BriefReport) Title() string {
	return "PR brief: " + r.CompanyName
}

func (r BriefReport) Raw() any { return r.Brief }

// Export names the file PR_Brief_<company>_<YYYY-MM-DD>.txt.
func (r BriefReport) Export(now time.Time) (string, string, bool) {
	name := fmt.Sprintf("PR_Brief_%s_%s.txt", safeName(r.CompanyName), now.UTC().Format(time.DateOnly))
	return name, r.BriefContent, true
}

func (r BriefReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if r.BriefID != "" {
		fmt.Fprintf(&b, "Brief `%s`", r.BriefID)
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(&b, ", created %s", r.CreatedAt.Format("Jan 2, 2006"))
		}
		b.WriteString("\n\n")
	}
	writeSection(&b, "Brief", r.BriefContent)
	writeBullets(&b, "Story angles", r.StoryAngles)
	writeBullets(&b, "Recommended media", r.RecommendedMedia)
	return b.String()
}

type StressTestReport struct{ *platform.StressTestReport }

func (StressTestReport) Kind() Kind { return KindStressTest }

func (r StressTestReport) Title() string {
	return "Stress test: " + r.CompanyName
}

func (r StressTestReport) Raw() any { return r.StressTestReport }

func (StressTestReport) Export(time.Time) (string, string, bool) { return "", "", false }

func (r StressTestReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if r.Industry != "" {
		fmt.Fprintf(&b, "**Industry:** %s\n\n", r.Industry)
	}
	if r.OverallDifficulty != "" {
		fmt.Fprintf(&b, "**Overall difficulty:** %s\n\n", r.OverallDifficulty)
	}
	writeSection(&b, "Questions", r.Questions)
	writeNumbered(&b, "Preparation tips", r.PreparationTips)
	return b.String()
}

// ContentReport wraps the repurposed content. The embedded pointer shadows the
// payload's own RepurposedContent text field.
type ContentReport struct{ *platform.RepurposedContent }

func (ContentReport) Kind() Kind { return KindContent }

func (r ContentReport) Title() string {
	return "Repurposed for " + optionLabel(Formats, r.TargetFormat)
}

func (r ContentReport) Raw() any { return r.RepurposedContent }

// Export names the file <format>_content_<YYYY-MM-DD>.txt.
func (r ContentReport) Export(now time.Time) (string, string, bool) {
	name := fmt.Sprintf("%s_content_%s.txt", safeName(r.TargetFormat), now.UTC().Format(time.DateOnly))
	return name, r.RepurposedContent.RepurposedContent, true
}

func (r ContentReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	fmt.Fprintf(&b, "**Voice:** %s\n\n", optionLabel(Voices, r.BrandVoice))
	if r.EstimatedEngagement != "" {
		fmt.Fprintf(&b, "**Estimated engagement:** %s\n\n", r.EstimatedEngagement)
	}
	if r.OriginalContentPreview != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(r.OriginalContentPreview, "\n", "\n> "))
	}
	writeSection(&b, "Content", r.RepurposedContent.RepurposedContent)
	writeBullets(&b, "Platform tips", r.PlatformTips)
	return b.String()
}

// OverviewMarkdown renders the dashboard summary.
func OverviewMarkdown(o *platform.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Welcome back, %s\n\n", fallback(o.User.Name, "there"))
	if o.User.Company != "" {
		fmt.Fprintf(&b, "%s\n\n", o.User.Company)
	}

	b.WriteString("| Activity | Total |\n|---|---|\n")
	fmt.Fprintf(&b, "| Reputation scans | %d |\n", o.Stats.TotalAnalyses)
	fmt.Fprintf(&b, "| PR briefs | %d |\n", o.Stats.TotalBriefs)
	fmt.Fprintf(&b, "| Stress tests | %d |\n", o.Stats.TotalStressTests)
	fmt.Fprintf(&b, "| Content pieces | %d |\n\n", o.Stats.TotalContentPieces)

	b.WriteString("## Recent activity\n\n")
	if len(o.RecentActivities) == 0 {
		b.WriteString("No activity yet. Run an agent to get started.\n")
		return b.String()
	}
	for _, a := range o.RecentActivities {
		when := ""
		if !a.CreatedAt.IsZero() {
			when = " (" + a.CreatedAt.Format("Jan 2 15:04") + ")"
		}
		fmt.Fprintf(&b, "- **%s**: %s%s\n", a.Type, a.Description, when)
	}
	return b.String()
}

func writeSection(b *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, strings.TrimSpace(body))
}

func writeBullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeNumbered(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

func optionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// safeName keeps a file name inside the target directory.
func safeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
	if s == "" {
		return "untitled"
	}
	return s
}
