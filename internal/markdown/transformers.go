package markdown

import (
	"strings"
)

// Transformer rewrites a document.
type Transformer func(document Document) (Document, error)

// Transform applies all transformers in order.
func (m Document) Transform(transformers ...Transformer) (Document, error) {
	result := m
	for _, transformer := range transformers {
		var err error
		result, err = transformer(result)
		if err != nil {
			return "", err
		}
	}
	return result, nil
}

// MustTransform is similar to Transform but panics on error.
func (m Document) MustTransform(transformers ...Transformer) Document {
	result, err := m.Transform(transformers...)
	if err != nil {
		panic(err)
	}
	return result
}

// NormalizeLineEndings converts CRLF and CR line endings.
func NormalizeLineEndings() Transformer {
	return func(document Document) (Document, error) {
		result := strings.ReplaceAll(string(document), "\r\n", "\n")
		return Document(strings.ReplaceAll(result, "\r", "\n")), nil
	}
}

// StripCodeBlocks blanks out fenced blocks and code spans.
// Line numbers and the length of other lines are preserved.
func StripCodeBlocks() Transformer {
	return func(document Document) (Document, error) {
		src := NewSource(string(document))
		content := []byte(src.String())

		blank := func(start, end int) {
			for i := start; i < end; i++ {
				if content[i] != '\n' {
					content[i] = ' '
				}
			}
		}
		for _, block := range FencedBlocks(src) {
			blank(src.Bytes(block.Range))
		}
		for _, span := range CodeSpans(src) {
			blank(src.Bytes(span.Range))
		}
		return Document(content), nil
	}
}
