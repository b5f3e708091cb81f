// Package reports turns billing summaries into dashboard figures and XLSX workbooks.
package reports

import (
	"fmt"
	"io"
	"time"

	"gestion-peluqueria-backend/billing"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbooks written by WriteXLSX
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a header row followed by data rows
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// WriteXLSX writes sheets as a workbook to w, in order
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}
		if err := writeRow(f, s.Name, 1, toRow(s.Headers)); err != nil {
			return err
		}
		for r, row := range s.Rows {
			if err := writeRow(f, s.Name, r+2, row); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func toRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

func writeRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// Filename builds "<prefix>-YYYY-MM-DD.xlsx"
func Filename(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, day.Format(time.DateOnly))
}

// CashCloseSheet lays out a day's close the way the till prints it: services, then
// payment kinds, then the day total.
func CashCloseSheet(day time.Time, cc billing.CashClose) Sheet {
	s := Sheet{Name: "Caja", Headers: []string{"Concepto", "Monto"}}
	s.Rows = append(s.Rows, []any{"Fecha", day.Format("02-01-2006")}, []any{"Atenciones", cc.Records}, []any{})
	s.Rows = append(s.Rows, []any{"Por servicio"})
	for _, a := range cc.ByService {
		s.Rows = append(s.Rows, []any{a.Label, a.Amount})
	}
	s.Rows = append(s.Rows, []any{}, []any{"Por forma de pago"})
	for _, a := range cc.ByPayment {
		s.Rows = append(s.Rows, []any{a.Label, a.Amount})
	}
	s.Rows = append(s.Rows, []any{}, []any{"Total del día", cc.Total})
	return s
}

func ProfessionalSheet(rows []billing.ProfessionalSummary) Sheet {
	s := Sheet{Name: "Comisiones", Headers: []string{"Profesional", "Servicios", "Total", "Comisión"}}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{r.Professional, r.Count, r.TotalAmount, r.TotalCommission})
	}
	return s
}

func CommissionDetailSheet(rows []billing.CommissionRow) Sheet {
	s := Sheet{Name: "Detalle", Headers: []string{"Fecha", "Folio", "Cliente", "Servicio", "Profesional", "Monto", "Comisión"}}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{r.Date.Format("02-01-2006"), r.Folio, r.Client, r.Service, r.Professional, r.Amount, r.Commission})
	}
	return s
}

func ServiceSheet(rows []billing.ServiceSummary) Sheet {
	s := Sheet{Name: "Servicios", Headers: []string{"Servicio", "Cantidad", "Total"}}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{r.Service, r.Count, r.TotalAmount})
	}
	return s
}
