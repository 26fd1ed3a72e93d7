package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(text string, x0, y0, x1, y1 float64) Token {
	return Token{Text: text, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func TestNewColumnRange_PanicsOnInversion(t *testing.T) {
	assert.Panics(t, func() {
		NewColumnRange("dpp", 200, 100)
	})
}

func TestColumnRange_Expand(t *testing.T) {
	t.Run("explicit margin", func(t *testing.T) {
		c := NewColumnRange("ppn", 100, 200).Expand(30)
		assert.Equal(t, 70.0, c.XMin)
		assert.Equal(t, 230.0, c.XMax)
	})

	t.Run("default margin floor", func(t *testing.T) {
		// Width 100, 5% = 5, floored to 10.
		c := NewColumnRange("ppn", 100, 200).Expand(0)
		assert.Equal(t, 90.0, c.XMin)
		assert.Equal(t, 210.0, c.XMax)
	})

	t.Run("default margin proportional", func(t *testing.T) {
		// Width 400, 5% = 20 beats the floor.
		c := NewColumnRange("ppn", 0, 400).Expand(0)
		assert.Equal(t, -20.0, c.XMin)
		assert.Equal(t, 420.0, c.XMax)
	})
}

func TestColumnRange_Contains(t *testing.T) {
	c := NewColumnRange("harga_jual", 100, 200)

	t.Run("fully inside", func(t *testing.T) {
		assert.True(t, c.Contains(tok("1.000", 120, 0, 180, 10), 0))
	})

	t.Run("partial overlap above threshold", func(t *testing.T) {
		// Width 100, overlap 20 = 20%.
		assert.True(t, c.Contains(tok("1.000", 180, 0, 280, 10), 0))
	})

	t.Run("partial overlap below threshold", func(t *testing.T) {
		// Width 100, overlap 5 = 5% < 10%.
		assert.False(t, c.Contains(tok("1.000", 195, 0, 295, 10), 0))
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.False(t, c.Contains(tok("1.000", 300, 0, 350, 10), 0))
	})

	t.Run("custom threshold", func(t *testing.T) {
		// 20% overlap passes the default but not a 0.5 threshold.
		token := tok("1.000", 180, 0, 280, 10)
		assert.True(t, c.Contains(token, 0.1))
		assert.False(t, c.Contains(token, 0.5))
	})

	t.Run("zero-width token by point", func(t *testing.T) {
		assert.True(t, c.Contains(tok("|", 150, 0, 150, 10), 0))
		assert.False(t, c.Contains(tok("|", 250, 0, 250, 10), 0))
	})
}

func TestClusterRows(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ClusterRows(nil, 5))
	})

	t.Run("tight tolerance splits", func(t *testing.T) {
		tokens := []Token{
			tok("a", 0, 98, 10, 102),   // yMid 100
			tok("b", 20, 100, 30, 104), // yMid 102
			tok("c", 0, 148, 10, 152),  // yMid 150
		}
		rows := ClusterRows(tokens, 5)
		require.Len(t, rows, 2)
		assert.Equal(t, "a b", rows[0].Text())
		assert.Equal(t, "c", rows[1].Text())
	})

	t.Run("loose tolerance merges everything", func(t *testing.T) {
		tokens := []Token{
			tok("a", 0, 98, 10, 102),
			tok("b", 20, 100, 30, 104),
			tok("c", 40, 148, 50, 152),
		}
		rows := ClusterRows(tokens, 60)
		require.Len(t, rows, 1)
		assert.Equal(t, "a b c", rows[0].Text())
	})

	t.Run("rows sorted left to right", func(t *testing.T) {
		tokens := []Token{
			tok("right", 200, 0, 250, 10),
			tok("left", 0, 0, 50, 10),
			tok("mid", 100, 0, 150, 10),
		}
		rows := ClusterRows(tokens, 5)
		require.Len(t, rows, 1)
		assert.Equal(t, "left mid right", rows[0].Text())
	})

	t.Run("deterministic for shuffled input", func(t *testing.T) {
		a := []Token{
			tok("a", 0, 0, 10, 10),
			tok("b", 20, 1, 30, 11),
			tok("c", 0, 50, 10, 60),
		}
		b := []Token{a[2], a[0], a[1]}
		ra := ClusterRows(a, 8)
		rb := ClusterRows(b, 8)
		assert.Equal(t, ra, rb)
	})
}
