package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
)

const (
	dateLayout = "2006-01-02"
	// XLSXContentType is the media type of exported workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook is a rendered export.
type Workbook struct {
	Filename string
	Data     []byte
}

type table struct {
	sheet   string
	headers []interface{}
	rows    [][]interface{}
}

// Export renders one resource (cattle, milk, health or feed) as an xlsx workbook.
func (s *Service) Export(ctx context.Context, resource string) (*Workbook, error) {
	var (
		t   *table
		err error
	)
	switch resource {
	case "cattle":
		t, err = s.cattleTable(ctx)
	case "milk":
		t, err = s.milkTable(ctx)
	case "health":
		t, err = s.healthTable(ctx)
	case "feed":
		t, err = s.feedTable(ctx)
	default:
		return nil, apperr.Validation("Invalid resource (cattle, milk, health or feed)")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to export "+resource, err)
	}

	data, err := render(t)
	if err != nil {
		return nil, apperr.Internal("Failed to export "+resource, err)
	}
	return &Workbook{
		Filename: fmt.Sprintf("%s-%s.xlsx", resource, s.now().In(s.loc).Format(dateLayout)),
		Data:     data,
	}, nil
}

func render(t *table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(t.sheet, "A1", &t.headers); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(t.sheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(t.sheet, cell, &t.rows[i]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) cattleTable(ctx context.Context) (*table, error) {
	herd, err := s.stores.Cattle.List(ctx)
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet:   "Cattle",
		headers: []interface{}{"Tag Number", "Name", "Gender", "Breed", "Date of Birth", "Weight", "Status", "Category", "Mother Tag"},
	}
	for _, c := range herd {
		var mother string
		if c.Mother != nil {
			mother = c.Mother.TagNumber
		}
		t.rows = append(t.rows, []interface{}{
			c.TagNumber, str(c.Name), string(c.Gender), c.Breed, s.day(c.DateOfBirth),
			num(c.Weight), string(c.Status), string(c.Category), mother,
		})
	}
	return t, nil
}

func (s *Service) milkTable(ctx context.Context) (*table, error) {
	records, err := s.stores.Milk.List(ctx, sqldb.MilkFilter{})
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet:   "Milk",
		headers: []interface{}{"Date", "Session", "Liters", "Quality", "Cattle Tag", "Notes"},
	}
	for _, r := range records {
		var tag string
		if r.Cattle != nil {
			tag = r.Cattle.TagNumber
		}
		t.rows = append(t.rows, []interface{}{
			s.day(r.Date), string(r.Session), r.Liters, string(r.Quality), tag, str(r.Notes),
		})
	}
	return t, nil
}

func (s *Service) healthTable(ctx context.Context) (*table, error) {
	records, err := s.stores.Health.List(ctx, sqldb.HealthFilter{})
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet: "Health",
		headers: []interface{}{"Scheduled", "Record Type", "Vaccination", "Description", "Status",
			"Completed", "Veterinarian", "Cost", "Cattle Tag"},
	}
	for _, r := range records {
		var vaccination, completed, tag string
		if r.VaccinationType != nil {
			vaccination = string(*r.VaccinationType)
		}
		if r.CompletedDate != nil {
			completed = s.day(*r.CompletedDate)
		}
		if r.Cattle != nil {
			tag = r.Cattle.TagNumber
		}
		t.rows = append(t.rows, []interface{}{
			s.day(r.ScheduledDate), string(r.RecordType), vaccination, r.Description, string(r.Status),
			completed, str(r.Veterinarian), num(r.Cost), tag,
		})
	}
	return t, nil
}

func (s *Service) feedTable(ctx context.Context) (*table, error) {
	items, err := s.stores.Feed.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	t := &table{
		sheet: "Feed",
		headers: []interface{}{"Feed Type", "Quantity", "Unit", "Min Threshold", "Cost", "Supplier",
			"Last Restocked", "Expiry", "Stock Status"},
	}
	for _, it := range items {
		var restocked, expiry string
		if it.LastRestocked != nil {
			restocked = s.day(*it.LastRestocked)
		}
		if it.ExpiryDate != nil {
			expiry = s.day(*it.ExpiryDate)
		}
		t.rows = append(t.rows, []interface{}{
			string(it.FeedType), it.Quantity, it.Unit, it.MinThreshold, num(it.Cost), str(it.Supplier),
			restocked, expiry, string(stats.StockStatusOf(it.Quantity, it.MinThreshold, it.ExpiryDate, now)),
		})
	}
	return t, nil
}

func (s *Service) day(t time.Time) string {
	return t.In(s.loc).Format(dateLayout)
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// num leaves a blank cell for unset numbers.
func num(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
