package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

// RecordCSV is the CSV row of one burst record.
type RecordCSV struct {
	Strategy       string  `csv:"strategy"`
	Seq            int     `csv:"seq"`
	ElapsedSeconds float64 `csv:"elapsed_seconds"`
	Timestamp      string  `csv:"timestamp"`
}

// ToCSV converts a record to its CSV row.
func ToCSV(rec timing.Record) RecordCSV {
	return RecordCSV{
		Strategy:       string(rec.Strategy),
		Seq:            rec.Seq,
		ElapsedSeconds: rec.ElapsedSeconds(),
		Timestamp:      rec.Timestamp.Format(time.RFC3339Nano),
	}
}

// Record converts a CSV row back to a record.
func (r RecordCSV) Record() (timing.Record, error) {
	tag, err := burst.ParseTag(r.Strategy)
	if err != nil {
		return timing.Record{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return timing.Record{}, fmt.Errorf("parsing timestamp %q: %w", r.Timestamp, err)
	}
	return timing.Record{
		Strategy:  tag,
		Seq:       r.Seq,
		Elapsed:   time.Duration(math.Round(r.ElapsedSeconds * float64(time.Second))),
		Timestamp: ts,
	}, nil
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []timing.Record) error {
	rows := make([]RecordCSV, len(records))
	for i, rec := range records {
		rows[i] = ToCSV(rec)
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// ReadCSV reads records written by WriteCSV or CSVWriter.
func ReadCSV(r io.Reader) ([]timing.Record, error) {
	var rows []RecordCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	records := make([]timing.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CSVWriter appends records to a CSV file as they are recorded.
type CSVWriter struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
	err           error
}

// NewCSVWriter creates path and returns a writer for it.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// Write appends one record. The first write includes the header row.
func (cw *CSVWriter) Write(rec timing.Record) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.err != nil {
		return cw.err
	}

	rows := []RecordCSV{ToCSV(rec)}
	var err error
	if !cw.headerWritten {
		err = gocsv.Marshal(rows, cw.file)
		cw.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, cw.file)
	}
	if err != nil {
		cw.err = fmt.Errorf("writing record: %w", err)
	}
	return cw.err
}

// Observe registers the writer on h so every new record is appended.
// Write errors are kept and returned by Close.
func (cw *CSVWriter) Observe(h *timing.Harness) {
	h.Observe(func(rec timing.Record) {
		_ = cw.Write(rec)
	})
}

// Close closes the file and returns the first write error, if any.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.file.Close(); err != nil && cw.err == nil {
		cw.err = err
	}
	return cw.err
}

// WriteJSON writes a summary as indented JSON.
func WriteJSON(w io.Writer, sum *timing.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// ReadJSON reads a summary written by WriteJSON.
func ReadJSON(r io.Reader) (*timing.Summary, error) {
	var sum timing.Summary
	if err := json.NewDecoder(r).Decode(&sum); err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	return &sum, nil
}

// WriteFile writes the summary to a JSON file at path.
func WriteFile(path string, sum *timing.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteJSON(f, sum); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
