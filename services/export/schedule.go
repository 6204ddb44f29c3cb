package export

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/schedule"
)

const (
	SheetName   = "Escala"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"Trimestre", "Classe", "Tema geral", "Nº", "Data", "Professor", "Lição", "Tema"}

// Schedule builds a workbook with one row per lesson, in display order.
// Missing dates are written as "-".
func Schedule(groups []*schedule.Group) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "renaming sheet")
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", last, bold)
	}

	row := 2
	for _, grp := range groups {
		for _, item := range grp.Lessons {
			date := item.Date
			if date == "" {
				date = "-"
			}
			values := []interface{}{
				strconv.Itoa(grp.Trimester) + "º Trimestre", grp.Class, grp.Theme,
				item.LessonNumber, date, item.Teacher, item.Lesson, item.Theme,
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return nil, errors.Wrapf(err, "writing row %d", row)
			}
			row++
		}
	}

	if row > 2 {
		_ = f.AutoFilter(SheetName, "A1:"+last, nil)
	}
	_ = f.SetColWidth(SheetName, "A", "B", 14)
	_ = f.SetColWidth(SheetName, "C", "C", 30)
	_ = f.SetColWidth(SheetName, "F", "H", 24)
	return f, nil
}

// WriteSchedule writes the Schedule workbook to w.
func WriteSchedule(w io.Writer, groups []*schedule.Group) error {
	f, err := Schedule(groups)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

// Filename returns the download name for a class schedule, eg: "escala-adultos.xlsx".
func Filename(class string) string {
	return "escala-" + core.Slug(class) + ".xlsx"
}
