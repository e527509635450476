package io

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadProgram reads comma separated decimal words. Surrounding whitespace and
// a single trailing comma are tolerated.
func ReadProgram(r io.Reader) (words []int64, err error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return
	}

	body := strings.TrimSpace(string(text))
	body = strings.TrimSuffix(body, ",")
	if len(body) == 0 {
		return
	}

	for _, token := range strings.Split(body, ",") {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			words = nil
			err = ErrParseNumber(token)
			return
		}
		words = append(words, value)
	}

	return
}

// WriteProgram writes words in the form read by ReadProgram.
func WriteProgram(w io.Writer, words []int64) (err error) {
	text := make([]string, len(words))
	for n, word := range words {
		text[n] = strconv.FormatInt(word, 10)
	}

	_, err = fmt.Fprintln(w, strings.Join(text, ","))

	return
}
