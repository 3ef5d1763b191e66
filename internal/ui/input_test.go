package ui

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderReadLine(t *testing.T) {
	lr := NewLineReader(strings.NewReader("q\r\n  c  \n\nlast"))

	for _, want := range []string{"q", "  c  ", "", "last"} {
		got, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := lr.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderServesOneLinePerRead(t *testing.T) {
	lr := NewLineReader(strings.NewReader("first\nsecond\nthird\n"))

	buf := make([]byte, 64)
	n, err := lr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(buf[:n]))

	// A scanner over the reader takes one line and leaves the rest.
	sc := bufio.NewScanner(lr)
	require.True(t, sc.Scan())
	assert.Equal(t, "second", sc.Text())

	got, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "third", got)
}

func TestLineReaderSmallBuffers(t *testing.T) {
	lr := NewLineReader(strings.NewReader("abcdef\nxyz\n"))

	buf := make([]byte, 4)
	n, err := lr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	// The rest of a partly read line comes back from ReadLine.
	got, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ef", got)

	got, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)

	n, err = lr.Read(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}
