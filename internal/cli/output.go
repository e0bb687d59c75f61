package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	pkgio "github.com/matzehuels/tubetrend/pkg/io"
	"github.com/matzehuels/tubetrend/pkg/stats"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// formatTable is the terminal table format; the others come from pkg/io.
const formatTable = "table"

var outputFormats = []string{formatTable, string(pkgio.FormatCSV), string(pkgio.FormatJSON), string(pkgio.FormatSummary)}

// titleWidth bounds the title column of the terminal table.
const titleWidth = 48

func parseFormat(s string) (string, error) {
	if slices.Contains(outputFormats, s) {
		return s, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (must be one of: table, csv, json, summary)", s)
}

// writeOutput writes t in format to path, or to w when path is empty.
func writeOutput(w io.Writer, t *videos.Table, format, path string, now time.Time) error {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := writeFormat(f, t, format, now); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		printFile(path)
		return nil
	}
	return writeFormat(w, t, format, now)
}

func writeFormat(w io.Writer, t *videos.Table, format string, now time.Time) error {
	if format == formatTable {
		renderVideos(w, t.Records, now)
		return nil
	}
	return pkgio.Write(t, pkgio.Format(format), now, w)
}

// renderVideos prints records as a bordered table.
func renderVideos(w io.Writer, recs []videos.Record, now time.Time) {
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		published := "unknown"
		if !r.PublishedAt.IsZero() {
			published = humanize.RelTime(r.PublishedAt, now, "ago", "from now")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			videos.Truncate(r.Title, titleWidth),
			r.ChannelTitle,
			r.CategoryName,
			videos.FormatCount(r.Views),
			videos.FormatCount(r.Likes),
			fmt.Sprintf("%.2f%%", r.EngagementRate),
			published,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Title", "Channel", "Category", "Views", "Likes", "Engagement", "Published").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			switch col {
			case 0:
				return StyleDim
			case 4, 5, 6:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

// renderSummary prints the aggregate statistics of t.
func renderSummary(w io.Writer, t *videos.Table) {
	s := stats.Summarize(t)

	fmt.Fprintln(w, StyleTitle.Render(pkgio.DataSource(t.Kind)+" · "+videos.RegionName(t.Region)))
	printKeyValue(w, "Total videos", humanize.Comma(int64(s.TotalVideos)))
	printKeyValue(w, "Total views", humanize.Comma(s.TotalViews))
	printKeyValue(w, "Avg views", humanize.CommafWithDigits(s.AvgViews, 0))
	printKeyValue(w, "Avg engagement", fmt.Sprintf("%.2f%%", s.AvgEngagement))
	printKeyValue(w, "Avg comment rate", fmt.Sprintf("%.3f%%", s.AvgCommentRate))
	printKeyValue(w, "Avg hours to trend", fmt.Sprintf("%.1f", s.AvgHoursToTrend))
	printKeyValue(w, "Top category", s.TopCategory)
	printKeyValue(w, "High engagement", fmt.Sprintf("%d videos above %.2f%%", s.HighEngagementCount, s.HighEngagementThreshold))

	if len(s.CategoryCounts) > 0 {
		rows := make([][]string, 0, len(s.CategoryCounts))
		for _, c := range s.CategoryCounts {
			rows = append(rows, []string{c.Category, strconv.Itoa(c.Count)})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, simpleTable([]string{"Category", "Videos"}, rows))
	}

	if len(s.TopChannels) > 0 {
		rows := make([][]string, 0, len(s.TopChannels))
		for _, c := range s.TopChannels {
			rows = append(rows, []string{
				c.Channel,
				strconv.Itoa(c.VideoCount),
				humanize.Comma(c.Views),
				humanize.CommafWithDigits(c.AvgViewsPerVideo, 0),
			})
		}
		fmt.Fprintln(w, simpleTable([]string{"Channel", "Videos", "Views", "Avg views"}, rows))
	}
}

// renderKeyValues prints a two-column table of pairs.
func renderKeyValues(w io.Writer, headers []string, pairs [][2]string) {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	fmt.Fprintln(w, simpleTable(headers, rows))
}

func simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
