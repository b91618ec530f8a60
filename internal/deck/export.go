package deck

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/youruser/lordeck/internal/deckerr"
)

// ExportText renders the deck as one "<count>x<code>" line per card in card
// code order, preceded by "# name" when name is set.
func ExportText(name string, d *Deck) string {
	lines := []string{}
	if name != "" {
		lines = append(lines, "# "+name)
	}
	sorted := &Deck{cards: d.Cards()}
	sorted.Sort()
	for _, c := range sorted.cards {
		lines = append(lines, strconv.Itoa(c.Count)+"x"+c.Code())
	}
	return strings.Join(lines, "\n")
}

// ParseText reads the format written by ExportText. Lines may also use the
// "code:count" form; blank lines and "#" comments are skipped. The first
// comment becomes the deck name.
func ParseText(r io.Reader) (*Deck, string, error) {
	d := &Deck{}
	name := ""
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if name == "" {
				name = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			}
			continue
		}

		in := TextCode{Code: line}
		if count, code, ok := strings.Cut(line, "x"); ok {
			n, err := strconv.Atoi(count)
			if err != nil {
				return nil, "", deckerr.Wrap(deckerr.KindValidation, fmt.Sprintf("line %d: card count is not a valid number", lineNo), err)
			}
			if n <= 0 {
				return nil, "", deckerr.WithMetadata(deckerr.KindValidation, fmt.Sprintf("line %d: card count must be positive", lineNo), map[string]string{
					"count": count,
				})
			}
			in = TextCode{Code: code, Count: n}
		}
		if err := d.Add(in); err != nil {
			return nil, "", fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", fmt.Errorf("read deck text: %w", err)
	}
	return d, name, nil
}
