// Package glyph describes 5x8 pixel character bitmaps as used by the
// character generator RAM of ST7036 class LCD controllers.
//
// Each glyph occupies one CGRAM slot and is transferred to the controller
// one byte per pixel row, top row first. Only the low five bits of a row
// are significant; bit 4 is the leftmost column.
package glyph

import (
	"fmt"
	"strings"
)

// Glyph is one 5x8 character cell, one byte per pixel row.
type Glyph [8]byte

// Parse builds a Glyph from eight pattern rows. A '#' marks a set pixel,
// a ' ' or '.' a clear one. Rows shorter than five columns are padded with
// clear pixels on the right.
func Parse(rows ...string) (Glyph, error) {
	var g Glyph
	if len(rows) != 8 {
		return g, fmt.Errorf("glyph: got %d pattern rows, need 8", len(rows))
	}
	for i, row := range rows {
		if len(row) > 5 {
			return g, fmt.Errorf("glyph: row %d is %d columns wide, max 5", i, len(row))
		}
		var b byte
		for col := 0; col < len(row); col++ {
			switch row[col] {
			case '#':
				b |= 1 << (4 - col)
			case ' ', '.':
			default:
				return g, fmt.Errorf("glyph: row %d contains invalid pixel %q", i, row[col])
			}
		}
		g[i] = b
	}
	return g, nil
}

// MustParse is like Parse but panics on a malformed pattern. It is meant
// for glyph tables built from constant patterns.
func MustParse(rows ...string) Glyph {
	g, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the glyph as eight rows of '#' and '.' pixels.
func (g Glyph) String() string {
	var sb strings.Builder
	for i, row := range g {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < 5; col++ {
			if row&(1<<(4-col)) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
