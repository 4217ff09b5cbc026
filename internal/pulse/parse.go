package pulse

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jmylchreest/sinkswitch/internal/model"
)

var (
	eventPatterns = []struct {
		re  *regexp.Regexp
		typ model.EventType
	}{
		{regexp.MustCompile(`^Event 'change' on sink #(\d+)`), model.EventChanged},
		{regexp.MustCompile(`^Event 'new' on sink #(\d+)`), model.EventNew},
		{regexp.MustCompile(`^Event 'remove' on sink #(\d+)`), model.EventRemoved},
	}

	sinkIndexPattern    = regexp.MustCompile(`index:\s+(\d+)`)
	cardNamePattern     = regexp.MustCompile(`alsa\.card_name\s+=\s+"(.+)"`)
	sinkHeaderPattern   = regexp.MustCompile(`Sink #(\d+)`)
	headphonesAvailable = regexp.MustCompile(`(?i)headphones.+available`)
	notAvailable        = regexp.MustCompile(`(?i)not available`)
	streamIndexPattern  = regexp.MustCompile(`index:\s*(\d+)`)
)

// maxLineSize bounds a single line of collaborator output.
const maxLineSize = 1024 * 1024

func newLineScanner(data []byte) *bufio.Scanner {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return scanner
}

// ParseEvent parses one line of subscription output.
// It reports false for lines that are not sink change, new or remove events.
func ParseEvent(line string) (model.Event, bool) {
	for _, p := range eventPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		handle, err := strconv.Atoi(m[1])
		if err != nil {
			return model.Event{}, false
		}
		return model.Event{Type: p.typ, Sink: handle}, true
	}
	return model.Event{}, false
}

// ParseSinks parses sink enumeration output into one Sink per block.
//
// A line containing "index: N" opens the block for handle N and the
// "alsa.card_name" property inside it names the block. A block that ends
// without a card name is a *ParseError; nothing is returned in that case.
func ParseSinks(data []byte) ([]model.Sink, error) {
	var (
		sinks   []model.Sink
		open    bool
		handle  int
		pending string
		opened  int // line number of the open block
		lineNo  int
	)

	closeBlock := func(line int) error {
		if !open {
			return nil
		}
		if pending == "" {
			return &ParseError{
				Input:   "sink list",
				Line:    line,
				Message: fmt.Sprintf("sink %d (opened at line %d) has no alsa.card_name", handle, opened),
			}
		}
		sinks = append(sinks, model.Sink{StableName: pending, Handle: handle})
		return nil
	}

	scanner := newLineScanner(data)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := sinkIndexPattern.FindStringSubmatch(line); m != nil {
			next, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &ParseError{Input: "sink list", Line: lineNo, Message: "invalid sink index " + m[1]}
			}
			if err := closeBlock(lineNo); err != nil {
				return nil, err
			}
			open, handle, pending, opened = true, next, "", lineNo
		}

		if m := cardNamePattern.FindStringSubmatch(line); m != nil && open {
			pending = m[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Input: "sink list", Message: err.Error()}
	}

	if err := closeBlock(0); err != nil {
		return nil, err
	}
	return sinks, nil
}

// ParseHeadphoneSinks returns the handles of sinks whose port list reports
// headphones as available. Lines before the first "Sink #N" header are
// ignored and each sink is reported at most once.
func ParseHeadphoneSinks(data []byte) []int {
	var (
		handles []int
		current = -1
		seen    = make(map[int]bool)
	)

	scanner := newLineScanner(data)
	for scanner.Scan() {
		line := scanner.Text()

		if m := sinkHeaderPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				current = n
			}
			continue
		}
		if current < 0 || seen[current] {
			continue
		}
		if headphonesAvailable.MatchString(line) && !notAvailable.MatchString(line) {
			seen[current] = true
			handles = append(handles, current)
		}
	}
	return handles
}

// ParseStreams returns the handle of every stream in stream enumeration output.
func ParseStreams(data []byte) []int {
	var handles []int
	scanner := newLineScanner(data)
	for scanner.Scan() {
		m := streamIndexPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			handles = append(handles, n)
		}
	}
	return handles
}
