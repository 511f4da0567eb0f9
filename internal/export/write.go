package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-intel/internal/model"
)

// SheetName is the worksheet WriteXLSX creates.
const SheetName = "Leads"

// LeadColumns are the headers of a lead export.
var LeadColumns = []string{
	"Name", "Title", "Company", "Score", "Email", "Email Confidence", "Email Source",
	"Domain", "Industry", "Employees", "Revenue", "Funding Stage", "Location",
	"Profile URL", "Buying Signals", "Enriched At",
}

func leadRecord(l *model.Lead) []string {
	var enriched string
	if !l.EnrichedAt.IsZero() {
		enriched = l.EnrichedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		l.Name,
		l.Title,
		l.Company,
		strconv.Itoa(l.Score),
		l.ContactInfo.Email,
		strconv.Itoa(l.ContactInfo.EmailConfidence),
		l.ContactInfo.EmailSource,
		l.Domain,
		l.CompanyData.Industry,
		l.CompanyData.EmployeesRange,
		l.CompanyData.Revenue,
		l.CompanyData.FundingStage,
		l.Location,
		l.ProfileURL,
		strings.Join(l.BuyingSignals, "; "),
		enriched,
	}
}

// WriteCSV writes leads as CSV with a header row.
func WriteCSV(w io.Writer, leads []*model.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LeadColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, l := range leads {
		if err := cw.Write(leadRecord(l)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", l.Name)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// BuildXLSX lays leads out on a single sheet. Score and email confidence
// are numeric cells.
func BuildXLSX(leads []*model.Lead) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range LeadColumns {
		header.AddCell().SetString(h)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		for i, v := range leadRecord(l) {
			cell := row.AddCell()
			switch i {
			case 3:
				cell.SetInt(l.Score)
			case 5:
				cell.SetInt(l.ContactInfo.EmailConfidence)
			default:
				cell.SetString(v)
			}
		}
	}
	return f, nil
}

// WriteXLSX writes leads as an XLSX workbook to w.
func WriteXLSX(w io.Writer, leads []*model.Lead) error {
	f, err := BuildXLSX(leads)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write xlsx")
}

// SaveXLSX writes leads as an XLSX workbook at path.
func SaveXLSX(path string, leads []*model.Lead) error {
	f, err := BuildXLSX(leads)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save xlsx %s", path)
}
