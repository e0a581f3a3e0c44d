// Package deck reads simulation decks: a title line followed by dot
// cards setting model constants, the pacing pulse, and the time span.
// Values are written in the model's native units (ms, mV, mS/cm^2)
// with optional SPICE-style scale suffixes.
package deck

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/cell"
)

// TranParam is the simulation time span and sampling density.
type TranParam struct {
	Start   float64 // Start time (ms)
	Stop    float64 // Stop time (ms)
	Samples int     // Sample count, endpoints included
}

// Deck is a fully resolved simulation setup.
type Deck struct {
	Title     string
	Constants *cell.Constants
	Stimulus  cell.Stimulus
	Tran      TranParam
}

// Default is the standard paced two-cell run.
func Default() *Deck {
	return &Deck{
		Title:     "Luo-Rudy two cell run",
		Constants: cell.NewConstants(),
		Stimulus:  cell.DefaultStimulus(),
		Tran:      TranParam{Start: 0, Stop: 400, Samples: 4000},
	}
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

// Parse reads a deck. The first line is always the title. Cards are
// .membrane, .ions, .env, .couple, .rest, .stim (key=value pairs) and
// .tran (tstart tstop samples). Unset parameters keep their defaults.
func Parse(input string) (*Deck, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	d := Default()

	// Title or comment
	if scanner.Scan() {
		d.Title = strings.TrimPrefix(scanner.Text(), "*")
		d.Title = strings.TrimSpace(d.Title)
	}

	var currentLine string
	for scanner.Scan() {
		line := scanner.Text()
		line = strings.TrimSpace(line)

		if len(line) == 0 { // Empty line
			if currentLine != "" {
				if err := parseLine(d, currentLine); err != nil {
					return nil, err
				}
				currentLine = ""
			}
			continue
		}

		if idx := strings.Index(line, "*"); idx >= 0 { // Comment
			line = strings.TrimSpace(line[:idx])
			if len(line) == 0 {
				continue
			}
		}

		if strings.HasPrefix(line, "+") { // Line continue
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}

		if currentLine != "" {
			if err := parseLine(d, currentLine); err != nil {
				return nil, err
			}
		}
		currentLine = line
	}

	// Process final line if exists
	if currentLine != "" {
		if err := parseLine(d, currentLine); err != nil {
			return nil, err
		}
	}

	if err := d.Constants.Validate(); err != nil {
		return nil, err
	}
	if err := d.Stimulus.Validate(); err != nil {
		return nil, err
	}
	if d.Tran.Stop <= d.Tran.Start {
		return nil, fmt.Errorf("tran stop %g not after start %g", d.Tran.Stop, d.Tran.Start)
	}
	if d.Tran.Samples < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", d.Tran.Samples)
	}

	return d, nil
}

func parseLine(d *Deck, line string) error {
	line = regexp.MustCompile(`\s+`).ReplaceAllString(line, " ")

	if !strings.HasPrefix(line, ".") {
		return fmt.Errorf("invalid card: %s", line)
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".tran":
		return parseTran(d, fields[1:])

	case ".stim":
		return parseStim(d, fields[1:])

	case ".membrane", ".ions", ".env", ".couple", ".rest":
		return parsePairs(fields[1:], d.Constants.Set)

	default:
		return fmt.Errorf("unsupported card: %s", fields[0])
	}
}

func parseTran(d *Deck, fields []string) error {
	var err error

	if len(fields) < 3 {
		return fmt.Errorf("insufficient tran parameters, need tstart, tstop and samples")
	}
	d.Tran.Start, err = ParseValue(fields[0])
	if err != nil {
		return fmt.Errorf("invalid tstart: %v", err)
	}
	d.Tran.Stop, err = ParseValue(fields[1])
	if err != nil {
		return fmt.Errorf("invalid tstop: %v", err)
	}
	d.Tran.Samples, err = strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("invalid sample count: %v", err)
	}
	return nil
}

func parseStim(d *Deck, fields []string) error {
	return parsePairs(fields, func(name string, value float64) error {
		switch name {
		case "amp":
			d.Stimulus.Amplitude = value
		case "start":
			d.Stimulus.Start = value
		case "end":
			d.Stimulus.End = value
		default:
			return fmt.Errorf("unknown stimulus key: %s", name)
		}
		return nil
	})
}

func parsePairs(fields []string, set func(name string, value float64) error) error {
	for _, field := range fields {
		pair := strings.Split(field, "=")
		if len(pair) != 2 {
			return fmt.Errorf("malformed parameter %q, want key=value", field)
		}

		name := strings.ToLower(pair[0])
		value, err := ParseValue(pair[1])
		if err != nil {
			return fmt.Errorf("invalid value for %s: %v", name, err)
		}
		if err := set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	re := regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?s?$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(val))

	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if len(matches) > 2 && matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}
