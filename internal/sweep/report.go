package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bartekus/jestspeck/internal/projection"
)

// Report renders a run as Markdown.
func Report(last *LastRun) string {
	var b strings.Builder

	b.WriteString(projection.RenderHeader(1, "Last Run"))
	b.WriteString(fmt.Sprintf("- **Run**: `%s`\n", last.RunID))
	b.WriteString(fmt.Sprintf("- **Status**: %s\n", last.Status))
	b.WriteString(fmt.Sprintf("- **Root**: `%s`\n", last.Root))
	b.WriteString(fmt.Sprintf("- **Files**: %d\n", len(last.Files)))
	b.WriteString("\n")

	counts := last.Counts()
	keys := projection.SortedKeys(counts)
	countRows := make([][]string, 0, len(keys))
	for _, k := range keys {
		countRows = append(countRows, []string{k, strconv.Itoa(counts[k])})
	}
	b.WriteString(projection.RenderHeader(2, "Summary"))
	b.WriteString(projection.RenderTable([]string{"Status", "Files"}, countRows))
	b.WriteString("\n")

	rows := make([][]string, 0, len(last.Files))
	for _, f := range last.Files {
		rows = append(rows, []string{f.File, string(f.Status), f.Output, strconv.Itoa(f.Added), f.Note})
	}
	b.WriteString(projection.RenderHeader(2, "Files"))
	b.WriteString(projection.RenderTable([]string{"File", "Status", "Shell", "Added", "Note"}, rows))

	if len(last.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Failed"))
		b.WriteString(projection.RenderList(last.Failed))
	}
	return b.String()
}
