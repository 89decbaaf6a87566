package syntax

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"sync"
)

// ErrMissingField means a tag matched the grammar but a field group did
// not participate in the match. It indicates a broken pattern, not bad input.
var ErrMissingField = errors.New("tag field missing from match")

// RawTag is an unvalidated tag occurrence. Start and End are the byte span
// [Start, End) of the whole marker within the scanned text.
type RawTag struct {
	Filename       string
	Constraint     string
	Source         string
	Identifier     string
	CurrentVersion string
	Timestamp      string
	Start          int
	End            int
}

// [demver(<constraint>)|<source>|<identifier>] <version> @ <timestamp>
var tagPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`\[demver\(([^)]*?)\)\|([^|]*?)\|([^\]]*?)\]\s(\S+)\s@\s(\S+)`)
})

var fieldNames = [...]string{"constraint", "source", "identifier", "version", "timestamp"}

// TokenizeAll yields every tag in text from left to right. maxCount > 0
// stops after that many results, failed ones included. The sequence can be
// ranged over repeatedly; each pass rescans text from the start.
func TokenizeAll(filename, text string, maxCount int) iter.Seq2[*RawTag, error] {
	return func(yield func(*RawTag, error) bool) {
		re := tagPattern()
		count := 0
		for pos := 0; pos < len(text); {
			if maxCount > 0 && count >= maxCount {
				return
			}
			loc := re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			count++
			tag, err := newRawTag(filename, text, pos, loc)
			if !yield(tag, err) {
				return
			}
			pos += loc[1]
		}
	}
}

func newRawTag(filename, text string, offset int, loc []int) (*RawTag, error) {
	var fields [len(fieldNames)]string
	for i := range fieldNames {
		s, e := loc[2*(i+1)], loc[2*(i+1)+1]
		if s < 0 {
			return nil, fmt.Errorf("%w: %s at byte %d", ErrMissingField, fieldNames[i], offset+loc[0])
		}
		fields[i] = text[offset+s : offset+e]
	}
	return &RawTag{
		Filename:       filename,
		Constraint:     fields[0],
		Source:         fields[1],
		Identifier:     fields[2],
		CurrentVersion: fields[3],
		Timestamp:      fields[4],
		Start:          offset + loc[0],
		End:            offset + loc[1],
	}, nil
}
