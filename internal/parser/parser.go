package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/source"
	"binder/internal/token"
)

// SourceType selects the grammar flavour for one file.
type SourceType struct {
	TypeScript   bool
	Module       bool // ES module: import/export allowed, strict mode implied
	JSX          bool
	AlwaysStrict bool
}

type Options struct {
	Source        SourceType
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File     ast.FileID
	Bag      *diag.Bag
	Errors   uint
	Comments []token.Trivia
}

// maxDepth bounds statement and expression nesting.
const maxDepth = 1000

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	tok      token.Token // текущий токен
	lastSpan source.Span // span последнего съеденного токена
	depth    int
	tooDeep  bool
	quiet    int  // >0 во время пробного разбора
	failed   bool // пробный разбор наткнулся на ошибку

	strict     bool
	inFunction bool
	inAsync    bool
	inGen      bool
	noIn       bool // `in` is not a binary operator (for-statement init)
	inClass    bool
	ambient    bool // inside `declare`: bodies may be missing
	loopDepth  int
	switchDeep int
	labels     []source.StringID

	// export default function() {} / class {}
	allowAnonymous    bool
	pendingDecorators []ast.ExprID
}

// ParseFile parses one file. The lexer must be freshly created over it.
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.Files.New(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.strict = opts.Source.Module || opts.Source.AlwaysStrict
	p.advance()

	p.parseProgram()

	var bag *diag.Bag
	switch r := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = r.Bag
	case diag.BagReporter:
		bag = r.Bag
	}
	return Result{
		File:     p.file,
		Bag:      bag,
		Errors:   p.opts.CurrentErrors,
		Comments: lx.Comments(),
	}
}

func (p *Parser) parseProgram() {
	f := p.arenas.Files.Get(p.file)
	f.Module = p.opts.Source.Module
	startSpan := p.tok.Span
	f.Directives = p.parseDirectives()
	for _, d := range f.Directives {
		if p.arenas.Name(d) == "use strict" {
			p.strict = true
		}
	}
	f.Strict = p.strict

	for !p.at(token.EOF) && !p.opts.Enough() && !p.tooDeep {
		before := p.tok.Span.Start
		stmt := p.parseModuleItem()
		if stmt.IsValid() {
			p.arenas.PushStmt(p.file, stmt)
		}
		if p.tok.Span.Start == before && !p.at(token.EOF) {
			// ни одного токена не съели: пропускаем, чтобы не зациклиться
			p.resyncStatement()
		}
	}
	f = p.arenas.Files.Get(p.file)
	f.Span = startSpan.Cover(p.tok.Span)
}

// parseDirectives collects the directive prologue: leading string statements.
// The statements themselves stay in the body as expression statements.
func (p *Parser) parseDirectives() []source.StringID {
	var out []source.StringID
	p.speculate(func() bool {
		for p.at(token.StringLit) {
			tok := p.advance()
			if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) && !p.tok.NewlineBefore {
				break
			}
			out = append(out, p.arenas.Strings.Intern(unquote(tok.Text)))
			p.eat(token.Semicolon)
		}
		return true
	})
	return out
}

func (p *Parser) parseModuleItem() ast.StmtID {
	switch p.tok.Kind {
	case token.KwImport:
		if next := p.peek(); next.Kind != token.LParen && next.Kind != token.Dot {
			return p.parseImport()
		}
	case token.KwExport:
		return p.parseExport()
	case token.At:
		return p.parseDecoratedClassDecl()
	}
	return p.parseStatement()
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return ""
}
