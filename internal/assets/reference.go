package assets

import (
	"fmt"
	"path"
)

// Position is a cursor location in an editing surface. Line and Ch are
// zero based; Ch counts bytes within the line.
type Position struct {
	Line int
	Ch   int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Ch) }

// Surface is the text being edited.
type Surface interface {
	Cursor() Position
	ReplaceRange(text string, at Position) error
}

// BuildReference returns the embed token for the file at writtenPath.
func BuildReference(writtenPath string) string {
	return "![[" + path.Base(writtenPath) + "]]"
}

// Insert places token at pos. pos is the cursor captured before the write
// began; it is not re-read here.
func Insert(s Surface, token string, pos Position) error {
	return s.ReplaceRange(token, pos)
}
