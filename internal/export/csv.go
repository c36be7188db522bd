package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/RodCut/internal/model"
)

// resultsHeader is the column layout of results.csv: the unnamed rod index,
// the cutting pattern and the scrap left on the rod.
var resultsHeader = []string{"", "pattern", "scrap (mm)"}

// WriteResultsCSV writes one row per used rod. The pattern column holds the
// bar marks as a bracketed, quoted list, for example ['B1', 'B1', 'B3'].
func WriteResultsCSV(w io.Writer, sol model.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, p := range sol.Patterns {
		row := []string{
			strconv.Itoa(p.Rod),
			formatPattern(p.BarMarks),
			strconv.FormatFloat(p.Scrap, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPattern(marks []string) string {
	quoted := make([]string, len(marks))
	for i, m := range marks {
		quoted[i] = "'" + m + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ExportCSV writes results.csv style output to path.
func ExportCSV(path string, sol model.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResultsCSV(f, sol); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
