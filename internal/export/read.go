// Package export reads profile batches from spreadsheets and writes scored
// leads back out as CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-intel/internal/model"
)

// ProfileColumns are the recognised input headers, in canonical order.
var ProfileColumns = []string{"name", "headline", "title", "company", "connection_degree", "profile_url", "location"}

// ReadProfilesCSV parses a CSV of profiles. The first row is the header; a
// "name" column is required and unknown columns are ignored.
func ReadProfilesCSV(r io.Reader) ([]model.RawProfile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "export: read csv")
	}
	return profilesFromRows(records)
}

// ReadProfilesXLSX parses the first sheet of an XLSX workbook the same way
// ReadProfilesCSV parses a CSV.
func ReadProfilesXLSX(path string) ([]model.RawProfile, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("export: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return profilesFromRows(rows)
}

func profilesFromRows(rows [][]string) ([]model.RawProfile, error) {
	if len(rows) == 0 {
		return nil, eris.New("export: empty input")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[headerKey(h)] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, eris.New("export: missing name column")
	}

	profiles := make([]model.RawProfile, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if get("name") == "" {
			continue
		}
		profiles = append(profiles, model.RawProfile{
			Name:             get("name"),
			Headline:         get("headline"),
			Title:            get("title"),
			Company:          get("company"),
			ConnectionDegree: get("connection_degree"),
			ProfileURL:       get("profile_url"),
			Location:         get("location"),
		})
	}
	return profiles, nil
}

// headerKey maps "Profile URL" and "profile-url" to "profile_url".
func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}
