package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"binder/internal/source"
	"binder/internal/token"
)

type TokenOutput struct {
	Kind          string       `json:"kind"`
	Text          string       `json:"text,omitempty"`
	Span          source.Span  `json:"span"`
	Leading       []TriviaJSON `json:"leading,omitempty"`
	NewlineBefore bool         `json:"newline_before,omitempty"`
}

type TriviaJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"` // только для комментариев
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, trivia.Kind.String())
		}

		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		tokenOut := TokenOutput{
			Kind:          tok.Kind.String(),
			Text:          tok.Text,
			Span:          tok.Span,
			NewlineBefore: tok.NewlineBefore,
		}
		for _, trivia := range tok.Leading {
			tj := TriviaJSON{Kind: trivia.Kind.String()}
			if trivia.IsComment() {
				tj.Text = trivia.Text
			}
			tokenOut.Leading = append(tokenOut.Leading, tj)
		}
		output = append(output, tokenOut)

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
