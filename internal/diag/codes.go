package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegExp       Code = 1006
	LexBadEscape                Code = 1007

	// Синтаксические
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynExpectSemicolon      Code = 2002
	SynExpectIdentifier     Code = 2003
	SynExpectExpression     Code = 2004
	SynUnclosedParen        Code = 2005
	SynUnclosedBrace        Code = 2006
	SynUnclosedBracket      Code = 2007
	SynModuleSyntaxInScript Code = 2008
	SynInvalidAssignTarget  Code = 2009
	SynBadForHeader         Code = 2010
	SynConstWithoutInit     Code = 2011
	SynIllegalBreak         Code = 2012
	SynNestingTooDeep       Code = 2013
	SynStrictModeReserved   Code = 2014
	SynTypeScriptOnly       Code = 2015
	SynJSXNotEnabled        Code = 2016
	SynUnclosedJSXElement   Code = 2017
	SynExpectBindingPattern Code = 2018
	SynIllegalNewline       Code = 2019

	// Семантические
	SemaInfo                 Code = 3000
	SemaError                Code = 3001
	SemaDuplicateDeclaration Code = 3002
	SemaUnresolvedReference  Code = 3003
	SemaNormalizationCollide Code = 3004
	SemaMissingExport        Code = 3005
	SemaConstAssignment      Code = 3006
	SemaImportAssignment     Code = 3007
	SemaDuplicateExport      Code = 3008

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проект
	ProjInfo           Code = 5000
	ProjImportCycle    Code = 5001
	ProjMissingModule  Code = 5002
	ProjSelfImport     Code = 5003
	ProjConfigError    Code = 5004
	ProjUnknownFileExt Code = 5005

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	LexUnterminatedTemplate:     "Unterminated template literal",
	LexUnterminatedRegExp:       "Unterminated regular expression",
	LexBadEscape:                "Invalid escape sequence",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynModuleSyntaxInScript:     "Import or export outside of a module",
	SynInvalidAssignTarget:      "Invalid assignment target",
	SynBadForHeader:             "Malformed for statement header",
	SynConstWithoutInit:         "Missing initializer in const declaration",
	SynIllegalBreak:             "Illegal break or continue",
	SynNestingTooDeep:           "Nesting too deep",
	SynStrictModeReserved:       "Reserved word in strict mode",
	SynTypeScriptOnly:           "TypeScript-only syntax",
	SynJSXNotEnabled:            "JSX is not enabled",
	SynUnclosedJSXElement:       "Unclosed JSX element",
	SynExpectBindingPattern:     "Expected binding pattern",
	SynIllegalNewline:           "Line terminator not permitted here",
	SemaInfo:                    "Semantic information",
	SemaError:                   "Semantic error",
	SemaDuplicateDeclaration:    "Duplicate declaration",
	SemaUnresolvedReference:     "Unresolved reference",
	SemaNormalizationCollide:    "Identifier differs from a binding only by Unicode normalization",
	SemaMissingExport:           "Imported name is not exported",
	SemaConstAssignment:         "Assignment to constant binding",
	SemaImportAssignment:        "Assignment to import binding",
	SemaDuplicateExport:         "Duplicate export name",
	IOLoadFileError:             "I/O load file error",
	IOCacheError:                "Cache error",
	ProjInfo:                    "Project information",
	ProjImportCycle:             "Import cycle detected",
	ProjMissingModule:           "Missing module",
	ProjSelfImport:              "Module imports itself",
	ProjConfigError:             "Invalid project configuration",
	ProjUnknownFileExt:          "Unknown source file extension",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

// ID returns the stable textual code, e.g. "SEM3002".
func (c Code) ID() string {
	switch n := int(c); {
	case n >= 1000 && n < 2000:
		return fmt.Sprintf("LEX%04d", n)
	case n >= 2000 && n < 3000:
		return fmt.Sprintf("SYN%04d", n)
	case n >= 3000 && n < 4000:
		return fmt.Sprintf("SEM%04d", n)
	case n >= 4000 && n < 5000:
		return fmt.Sprintf("IO%04d", n)
	case n >= 5000 && n < 6000:
		return fmt.Sprintf("PRJ%04d", n)
	case n >= 6000 && n < 7000:
		return fmt.Sprintf("OBS%04d", n)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
