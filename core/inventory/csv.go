package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Columns is the fixed column order of the persisted shaped-device table.
// The shaping engine consumes this file verbatim.
var Columns = []string{
	"Circuit ID", "Circuit Name", "Device ID", "Device Name", "Parent Node",
	"MAC", "IPv4", "IPv6", "Download Min Mbps", "Upload Min Mbps",
	"Download Max Mbps", "Upload Max Mbps", "Comment",
}

// ReadCSV parses a persisted shaped-device table. The header row is
// required and must match Columns; a duplicate circuit name is an error
// since the file is only ever written by this process.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %q at position %d", header[i], i)
		}
	}

	table := NewTable()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := &Record{
			CircuitID:       row[0],
			CircuitName:     row[1],
			DeviceID:        row[2],
			DeviceName:      row[3],
			ParentNode:      row[4],
			MAC:             row[5],
			IPv4:            row[6],
			IPv6:            row[7],
			DownloadMinMbps: parseMbps(row[8]),
			UploadMinMbps:   parseMbps(row[9]),
			DownloadMaxMbps: parseMbps(row[10]),
			UploadMaxMbps:   parseMbps(row[11]),
			Comment:         row[12],
		}
		if _, dup := table.Get(rec.CircuitName); dup {
			return nil, fmt.Errorf("duplicate circuit name %q", rec.CircuitName)
		}
		table.Insert(rec)
	}
	return table, nil
}

// WriteCSV writes the table with the required header, one row per record,
// ordered by circuit name.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, rec := range t.All() {
		row := []string{
			rec.CircuitID,
			rec.CircuitName,
			rec.DeviceID,
			rec.DeviceName,
			rec.ParentNode,
			rec.MAC,
			rec.IPv4,
			rec.IPv6,
			formatMbps(rec.DownloadMinMbps),
			formatMbps(rec.UploadMinMbps),
			formatMbps(rec.DownloadMaxMbps),
			formatMbps(rec.UploadMaxMbps),
			rec.Comment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseMbps(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func formatMbps(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
