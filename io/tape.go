package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Tape provides sequential word I/O over text streams. Input words are
// decimal integers separated by commas or whitespace; output words are
// written one per line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input. The underlying streams are not seekable,
// so a tape continues from wherever its reader left off.
func (tc *Tape) Rewind() {
	tc.reader = nil
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// Receive reads the next decimal word from the input stream.
func (tc *Tape) Receive() (value int64, err error) {
	if tc.Input == nil {
		err = io.EOF
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	var token strings.Builder
	for {
		var r rune
		r, _, err = tc.reader.ReadRune()
		if err == io.EOF && token.Len() > 0 {
			err = nil
			break
		}
		if err != nil {
			return
		}
		if isSeparator(r) {
			if token.Len() == 0 {
				continue
			}
			break
		}
		token.WriteRune(r)
	}

	value, err = strconv.ParseInt(token.String(), 10, 64)
	if err != nil {
		err = ErrParseNumber(token.String())
		return
	}

	return
}

// Send writes a word to the output stream, followed by a newline.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelFull
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
