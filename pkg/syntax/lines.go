package syntax

// Line holds the code-unit bounds of one line of a Source.
type Line struct {
	// Start is the index of the first unit of the line.
	Start int

	// NewlineStart is where the line terminator begins; equals End for a
	// last line without terminator.
	NewlineStart int

	// End is the index just after the terminator.
	End int
}

// BuildLines splits a source into lines. It handles LF and CRLF endings.
func BuildLines(src Source) []Line {
	if len(src) == 0 {
		return []Line{}
	}

	var lines []Line
	lineStart := 0

	for idx, unit := range src {
		if unit == '\n' {
			newlineStart := idx
			if idx > 0 && src[idx-1] == '\r' {
				newlineStart = idx - 1
			}
			lines = append(lines, Line{Start: lineStart, NewlineStart: newlineStart, End: idx + 1})
			lineStart = idx + 1
		}
	}

	if lineStart < len(src) {
		lines = append(lines, Line{Start: lineStart, NewlineStart: len(src), End: len(src)})
	}

	return lines
}

// LineIndex returns the index of the line containing offset, or -1.
// An offset equal to the source length belongs to the last line.
func LineIndex(lines []Line, offset int) int {
	if len(lines) == 0 || offset < 0 {
		return -1
	}
	lo, hi := 0, len(lines)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case offset < lines[mid].Start:
			hi = mid - 1
		case offset >= lines[mid].End:
			lo = mid + 1
		default:
			return mid
		}
	}
	if offset == lines[len(lines)-1].End {
		return len(lines) - 1
	}
	return -1
}
