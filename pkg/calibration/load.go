package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMalformedCalibrationLine is matched by every *MalformedLineError.
	ErrMalformedCalibrationLine = errors.New("malformed calibration line")

	// ErrNoSource is returned by Load when neither a path nor a literal is set.
	ErrNoSource = errors.New("no calibration source given")
)

// MalformedLineError describes a line that is not a "voltage field" pair.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("calibration line %d %q: %s", e.Line, e.Text, e.Reason)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedCalibrationLine
}

// Source selects where a table is read from. Path takes precedence over
// Literal. Every parsed field is multiplied by Scale; zero means 1.
type Source struct {
	Path    string
	Literal string
	Scale   float64
}

// Load builds a table from src.
func Load(src Source) (Table, error) {
	switch {
	case src.Path != "":
		return LoadFile(src.Path, src.Scale)
	case strings.TrimSpace(src.Literal) != "":
		return ParseString(src.Literal, src.Scale)
	}
	return Table{}, ErrNoSource
}

// LoadFile reads a calibration table from a file.
func LoadFile(path string, scale float64) (Table, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Table{}, pkgerrors.Wrapf(err, "failed to open calibration file %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}(fp)

	t, err := Parse(fp, scale)
	if err != nil {
		return Table{}, pkgerrors.Wrapf(err, "failed to parse calibration file %s", path)
	}

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"points": t.Len(),
		"scale":  scale,
	}).Debug("calibration loaded")

	return t, nil
}

// ParseString parses an in-memory calibration literal.
func ParseString(literal string, scale float64) (Table, error) {
	return Parse(strings.NewReader(literal), scale)
}

// Parse reads "voltage field" pairs from r.
func Parse(r io.Reader, scale float64) (Table, error) {
	if scale == 0 {
		scale = 1
	}

	var points []Point
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		tokens := strings.Fields(trimmed)
		if len(tokens) != 2 {
			return Table{}, &MalformedLineError{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("expected 2 fields, got %d", len(tokens)),
			}
		}

		voltage, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return Table{}, &MalformedLineError{Line: lineNo, Text: line, Reason: "invalid voltage " + strconv.Quote(tokens[0])}
		}
		field, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return Table{}, &MalformedLineError{Line: lineNo, Text: line, Reason: "invalid field " + strconv.Quote(tokens[1])}
		}

		points = append(points, Point{Voltage: voltage, Field: field * scale})
	}
	if err := sc.Err(); err != nil {
		return Table{}, pkgerrors.Wrap(err, "failed to read calibration")
	}

	logrus.Tracef("parsed %d calibration points", len(points))

	return Table{Points: points}, nil
}
