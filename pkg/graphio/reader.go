// Package graphio reads the vertex-value and edge-list text input
// formats and writes the partition-assignment output format. The
// separator grammar (SOH, tab, or space) is not a CSV dialect, so this
// stays a small bufio.Scanner reader rather than reaching for a
// table-format library; see DESIGN.md.
package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okapi-spinner/spinner/pkg/spinner"
)

// separators is the accepted field-separator set: SOH, tab, or space.
const separators = "\x01\t "

// VertexRecord is one parsed line of the vertex-value input file.
type VertexRecord struct {
	ID             int64
	PriorPartition int64 // -1 when the line omits it (fresh init)
	Line           int
}

// ReadVertexValues parses the vertex-value input format,
// `<vertexId>[SEP<priorPartition>]`, one record per line. A malformed
// line is a data fault: it is fatal for the whole split, and the
// returned error names the offending line number.
func ReadVertexValues(r io.Reader) ([]VertexRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []VertexRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, isSeparator)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, fmt.Errorf("%w: vertex-value line %d: expected 1 or 2 fields, got %d", spinner.ErrDataFault, lineNo, len(fields))
		}

		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex-value line %d: bad vertex id %q: %v", spinner.ErrDataFault, lineNo, fields[0], err)
		}

		prior := int64(-1)
		if len(fields) == 2 {
			prior, err = strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: vertex-value line %d: bad prior partition %q: %v", spinner.ErrDataFault, lineNo, fields[1], err)
			}
		}

		records = append(records, VertexRecord{ID: id, PriorPartition: prior, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading vertex-value input: %v", spinner.ErrDataFault, err)
	}
	return records, nil
}

// EdgeRecord is one parsed line of the edge-list input file.
type EdgeRecord struct {
	Src, Dst int64
	Weight   int8
	Line     int
}

// ReadEdges parses the edge-list input format,
// `<srcId>SEP<dstId>[SEP<weight>]`, defaulting weight to
// defaultWeight when the line omits it.
func ReadEdges(r io.Reader, defaultWeight int8) ([]EdgeRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []EdgeRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, isSeparator)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: edge line %d: expected 2 or 3 fields, got %d", spinner.ErrDataFault, lineNo, len(fields))
		}

		src, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: edge line %d: bad source id %q: %v", spinner.ErrDataFault, lineNo, fields[0], err)
		}
		dst, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: edge line %d: bad destination id %q: %v", spinner.ErrDataFault, lineNo, fields[1], err)
		}

		weight := defaultWeight
		if len(fields) == 3 {
			w, err := strconv.ParseInt(fields[2], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: edge line %d: bad weight %q: %v", spinner.ErrDataFault, lineNo, fields[2], err)
			}
			weight = int8(w)
		}

		records = append(records, EdgeRecord{Src: src, Dst: dst, Weight: weight, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading edge input: %v", spinner.ErrDataFault, err)
	}
	return records, nil
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}
