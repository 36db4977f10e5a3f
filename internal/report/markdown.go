package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs a run Summary as a GitHub-flavored markdown
// document, using the nao1215/markdown library for fluent, type-safe
// generation of tables, alerts, and the flagger-distribution pie chart.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeFindings(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Scavenger Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Gallery", "`" + summary.GalleryBaseURL + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", summary.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().String()},
			{"Images Processed", strconv.Itoa(summary.ImagesProcessed)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *Summary) {
	md.H2("Findings by Flagger")
	md.PlainText("")

	if len(summary.CountsByAuthor) == 0 {
		md.PlainText("No flagged images.")
		md.PlainText("")
		md.Tip("Nothing sensitive was detected in this run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.CountsByAuthor)+1)
	for _, author := range []string{"PATTERN", "KEYWORD", "EXIF"} {
		if count, ok := summary.CountsByAuthor[author]; ok {
			rows = append(rows, []string{author, strconv.Itoa(count)})
		}
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.TotalFindings()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Flagger", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
	w.writeAlert(md, summary)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Flagger"),
		piechart.WithShowData(true),
	)
	for _, author := range []string{"PATTERN", "KEYWORD", "EXIF"} {
		if count := summary.CountsByAuthor[author]; count > 0 {
			chart.LabelAndIntValue(author, uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *Summary) {
	switch {
	case summary.TotalFindings() == 0:
		md.Tip("No sensitive content was flagged during this run.")
	case summary.TotalFindings() > 10:
		md.Warningf("%d images were flagged. Review the sink output for details.", summary.TotalFindings())
	default:
		md.Note(fmt.Sprintf("%d image(s) were flagged during this run.", summary.TotalFindings()))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, summary *Summary) {
	md.H2("Flagged Images")
	md.PlainText("")

	if len(summary.Findings) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Findings))
	for i, f := range summary.Findings {
		rows[i] = []string{f.ImageID, f.Author, truncateString(f.Details, 80)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Image ID", "Flagger", "Details"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by scavenger*")
}

// truncateString truncates a string to maxLen characters with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
