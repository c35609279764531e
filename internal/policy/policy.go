// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package policy provides resolution-policy sources. The interactive source
// asks the operator once per run; the static source carries a policy built
// from flags, so automated runs never touch stdin.
package policy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/pagebinder/pkg/types"
)

const (
	defaultNth    = 3
	defaultWidth  = 800
	defaultHeight = 600
)

// Source yields the resolution policy for a run. Exactly one Policy call
// happens per run; the result applies to every folder.
type Source interface {
	Policy() (types.ResolutionPolicy, error)
}

// Static is a Source that returns a prebuilt policy.
type Static struct {
	P types.ResolutionPolicy
}

func (s Static) Policy() (types.ResolutionPolicy, error) {
	return s.P, nil
}

// Interactive is a Source that prompts on out and reads selections from in.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive creates an interactive source reading from in and
// prompting on out.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

// Policy presents the six-option menu and returns the selected policy.
// Empty or unrecognized input falls back to the nth-image mode with n=3.
// Only the fixed-resolution prompt re-asks on malformed input; every other
// sub-prompt substitutes its default.
func (s *Interactive) Policy() (types.ResolutionPolicy, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Select resolution handling:")
	fmt.Fprintln(s.out, "1. Match the Nth image's resolution (default: 3rd)")
	fmt.Fprintln(s.out, "2. Fit the maximum resolution across all images")
	fmt.Fprintln(s.out, "3. Fixed resolution (e.g. 800x600)")
	fmt.Fprintln(s.out, "4. Uniform width, height unchanged (may distort)")
	fmt.Fprintln(s.out, "5. Uniform height, width unchanged (may distort)")
	fmt.Fprintln(s.out, "6. Keep original sizes")

	choice, err := s.ask("Enter option (1/2/3/4/5/6, default 1): ")
	if err != nil {
		return types.ResolutionPolicy{}, err
	}
	if choice == "" {
		choice = "1"
	}

	switch choice {
	case "1":
		n, err := s.askNumeric("Enter reference image index (default 3): ", defaultNth)
		if err != nil {
			return types.ResolutionPolicy{}, err
		}
		return types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: n}, nil
	case "2":
		return types.ResolutionPolicy{Mode: types.ModeMaxResolution}, nil
	case "3":
		return s.askFixedResolution()
	case "4":
		w, err := s.askNumeric("Enter target width (e.g. 800): ", defaultWidth)
		if err != nil {
			return types.ResolutionPolicy{}, err
		}
		return types.ResolutionPolicy{Mode: types.ModeFixedWidth, Width: w}, nil
	case "5":
		h, err := s.askNumeric("Enter target height (e.g. 600): ", defaultHeight)
		if err != nil {
			return types.ResolutionPolicy{}, err
		}
		return types.ResolutionPolicy{Mode: types.ModeFixedHeight, Height: h}, nil
	case "6":
		return types.ResolutionPolicy{Mode: types.ModeOriginalSize}, nil
	default:
		return types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: defaultNth}, nil
	}
}

// ask prints prompt and returns the next trimmed input line.
func (s *Interactive) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askNumeric reads one line and parses it as an unsigned decimal.
// Anything else, including empty input, yields fallback.
func (s *Interactive) askNumeric(prompt string, fallback int) (int, error) {
	line, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	if n, ok := parseDigits(line); ok {
		return n, nil
	}
	return fallback, nil
}

// askFixedResolution re-asks until the input parses as <width>x<height>.
// The loop is unbounded: this is a blocking operator prompt, not a
// timeout-governed operation.
func (s *Interactive) askFixedResolution() (types.ResolutionPolicy, error) {
	for {
		line, err := s.ask("Enter target resolution (width x height, e.g. 800x600): ")
		if err != nil {
			return types.ResolutionPolicy{}, err
		}
		w, h, ok := ParseSize(line)
		if !ok {
			fmt.Fprintln(s.out, "Invalid format, try again")
			continue
		}
		return types.ResolutionPolicy{Mode: types.ModeFixedResolution, Width: w, Height: h}, nil
	}
}

// ParseSize parses "<width>x<height>" with a case-insensitive separator.
// Both dimensions must be positive integers.
func ParseSize(s string) (w, h int, ok bool) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// parseDigits accepts only all-digit strings, so "-5" or "3.5" fall back
// to the prompt default instead of producing surprising sizes.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
