package lexer

import (
	"binder/internal/diag"
	"binder/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки игнорируем, но продолжаем лексить
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.mute > 0 || lx.opts.Reporter == nil {
		return
	}
	lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}
