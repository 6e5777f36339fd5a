package board

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"memoryscramble/boarderrors"
)

var headerPattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

func header(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

// ParseFromFile reads a board-file and returns a freshly constructed
// Board with every cell face-down and uncontrolled. Line endings are normalised (CRLF and stray CR both
// become LF) and a single trailing empty line is dropped before
// parsing.
func ParseFromFile(path string, opts ...Option) (*Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", boarderrors.ErrInvalidFile, err)
	}
	return parse(string(raw), opts...)
}

func parse(raw string, opts ...Option) (*Board, error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, boarderrors.ErrInvalidFile
	}

	m := headerPattern.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, fmt.Errorf("%w: %q", boarderrors.ErrInvalidHeader, lines[0])
	}
	rows, err1 := strconv.Atoi(m[1])
	cols, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %q", boarderrors.ErrInvalidDimensions, lines[0])
	}

	cardLines := lines[1:]
	want := rows * cols
	if len(cardLines) != want {
		return nil, fmt.Errorf("%w: header says %d, file has %d", boarderrors.ErrWrongCardCount, want, len(cardLines))
	}

	pictures := make([]string, want)
	for i, tok := range cardLines {
		lineNum := i + 2 // header is line 1, first card is line 2
		if tok == "" || strings.ContainsFunc(tok, unicode.IsSpace) {
			return nil, fmt.Errorf("%w: line %d: %q", boarderrors.ErrInvalidCard, lineNum, tok)
		}
		if tok == "none" {
			pictures[i] = ""
			continue
		}
		pictures[i] = tok
	}

	return newBoardFromLayout(rows, cols, pictures, opts...), nil
}

// PicturesDump serialises the board's current layout in the
// board-file grammar, substituting "none" for empty cells. It is the
// inverse of ParseFromFile: ParseFromFile(f).PicturesDump() equals the
// normalised contents of f.
func (b *Board) PicturesDump() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(header(b.rows, b.cols))
	sb.WriteByte('\n')
	for _, cl := range b.cells {
		if cl.picture == "" {
			sb.WriteString("none")
		} else {
			sb.WriteString(cl.picture)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
