package indexer

import "strings"

const byteOrderMark = "\ufeff"

// Preprocess normalizes raw file text before chunking: a leading byte order
// mark is dropped and CRLF / CR line endings become LF. Other whitespace is kept
// so chunk boundaries still see paragraph breaks.
func Preprocess(text string) string {
	text = strings.TrimPrefix(text, byteOrderMark)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
