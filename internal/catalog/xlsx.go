// Package catalog ingests load catalogues and call transcripts from the file
// formats booking offices actually send: XLSX sheets and JSON exports.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/model"
)

// XLSXOptions configures the XLSX catalogue parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// dateLayouts are tried in order when parsing the posted-date column.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	time.RFC3339,
}

// ImportXLSX reads a load catalogue sheet. The first row is taken as the
// header and maps columns by name, so column order does not matter. Rows
// without both endpoints are skipped with a warning rather than failing the
// whole import.
func ImportXLSX(path string, opts XLSXOptions) ([]*model.Load, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("catalog: sheet in %s is empty", path)
	}

	header := headerIndex(rowToStrings(sheet.Rows[0]))
	var loads []*model.Load
	skipped := 0
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		load := loadFromRecord(header, cells)
		if load.FromLocation == "" || load.ToLocation == "" {
			skipped++
			zap.L().Warn("skipping catalogue row without route endpoints",
				zap.Int("row", i+2), zap.String("file", path))
			continue
		}
		loads = append(loads, load)
	}

	zap.L().Info("imported load catalogue",
		zap.String("file", path),
		zap.Int("loads", len(loads)),
		zap.Int("skipped", skipped))
	return loads, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("catalog: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("catalog: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// headerIndex maps normalized column names to positions. "From Location",
// "from_location", and "FROM LOCATION " all land on the same key.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

// columnAliases maps the headers seen in real catalogue sheets to one key.
var columnAliases = map[string][]string{
	"id":             {"id", "load_id", "serial_no", "sl_no"},
	"booking_office": {"booking_office", "office", "branch"},
	"posted_at":      {"posted_at", "date_posted", "date", "posting_date"},
	"from_location":  {"from_location", "from", "origin", "source"},
	"to_location":    {"to_location", "to", "destination"},
	"truck_type":     {"truck_type", "vehicle_type", "truck"},
	"truck_length":   {"truck_length", "length", "feet"},
	"tonnage":        {"tonnage", "weight", "capacity", "tons"},
	"product":        {"product", "material", "commodity"},
	"price":          {"price", "rate", "amount"},
	"num_trucks":     {"num_trucks", "no_of_trucks", "trucks"},
	"eta":            {"eta", "loading_date", "pickup"},
	"status":         {"status"},
	"assigned_to":    {"assigned_to", "assigned"},
}

func cellFor(header map[string]int, cells []string, field string) string {
	for _, alias := range columnAliases[field] {
		if i, ok := header[alias]; ok && i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
	}
	return ""
}

func loadFromRecord(header map[string]int, cells []string) *model.Load {
	load := &model.Load{
		ID:            cellFor(header, cells, "id"),
		BookingOffice: cellFor(header, cells, "booking_office"),
		FromLocation:  cellFor(header, cells, "from_location"),
		ToLocation:    cellFor(header, cells, "to_location"),
		TruckType:     cellFor(header, cells, "truck_type"),
		TruckLength:   cellFor(header, cells, "truck_length"),
		Tonnage:       cellFor(header, cells, "tonnage"),
		Product:       cellFor(header, cells, "product"),
		ETA:           cellFor(header, cells, "eta"),
		AssignedTo:    cellFor(header, cells, "assigned_to"),
		Status:        model.LoadStatusAvailable,
	}

	if raw := cellFor(header, cells, "status"); raw != "" {
		load.Status = model.LoadStatus(strings.ToLower(raw))
	}
	if raw := cellFor(header, cells, "price"); raw != "" {
		clean := strings.ReplaceAll(raw, ",", "")
		clean = strings.TrimPrefix(clean, "₹")
		if v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64); err == nil {
			load.Price = &v
		}
	}
	if raw := cellFor(header, cells, "num_trucks"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			load.NumTrucks = v
		}
	}
	if load.NumTrucks <= 0 {
		load.NumTrucks = 1
	}
	if raw := cellFor(header, cells, "posted_at"); raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				load.PostedAt = t.UTC()
				break
			}
		}
	}
	return load
}
