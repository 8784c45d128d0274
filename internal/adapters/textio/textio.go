// Package textio persists planning artefacts as plain text files that the
// flight tooling can read back: one matrix row or one command per line.
package textio

import (
	"bufio"
	"drone-route-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Default file names used by the planner CLI.
const (
	MatrixFile   = "DistancesMatrix.txt"
	CommandsFile = "DroneCommands.txt"
)

// WriteMatrix writes one space-separated row per line.
func WriteMatrix(w io.Writer, m domain.DistanceMatrix) error {
	bw := bufio.NewWriter(w)
	for i, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if _, err := bw.WriteString(strings.Join(cells, " ") + "\n"); err != nil {
			return fmt.Errorf("write matrix: row %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write matrix: flush: %w", err)
	}
	return nil
}

// ReadMatrix parses what WriteMatrix produced. Blank lines are skipped and
// the result must be square.
func ReadMatrix(r io.Reader) (domain.DistanceMatrix, error) {
	var m domain.DistanceMatrix

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("read matrix: line %d col %d: %w", line, j+1, err)
			}
			row[j] = v
		}
		m = append(m, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}

	if len(m) == 0 {
		return nil, errors.New("read matrix: no rows")
	}
	for i, row := range m {
		if len(row) != len(m) {
			return nil, fmt.Errorf("read matrix: row %d has %d entries, want %d", i, len(row), len(m))
		}
	}

	return m, nil
}

// WriteCommands writes one protocol command per line.
func WriteCommands(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return fmt.Errorf("write commands: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write commands: flush: %w", err)
	}
	return nil
}

// ReadCommands returns the non-blank lines of r, trimmed.
func ReadCommands(r io.Reader) ([]string, error) {
	var out []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			out = append(out, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}

	return out, nil
}

// SaveMatrix writes m to path, replacing the file.
func SaveMatrix(path string, m domain.DistanceMatrix) error {
	return writeFile(path, func(w io.Writer) error { return WriteMatrix(w, m) })
}

// SaveCommands writes lines to path, replacing the file.
func SaveCommands(path string, lines []string) error {
	return writeFile(path, func(w io.Writer) error { return WriteCommands(w, lines) })
}

// LoadCommands reads a command file written by SaveCommands.
func LoadCommands(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load commands: %w", err)
	}
	defer f.Close()

	return ReadCommands(f)
}

// LoadMatrix reads a matrix file written by SaveMatrix.
func LoadMatrix(path string) (domain.DistanceMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	defer f.Close()

	return ReadMatrix(f)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	return write(f)
}
