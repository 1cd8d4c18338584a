// Package lexer turns JavaScript and TypeScript source into tokens.
//
// The lexer is pull-based: the parser asks for one token at a time and
// switches scanning modes where the grammar is context dependent
// (RescanRegExp after an operand-less '/', NextJSXChild inside JSX elements).
// Template literal substitutions are tracked internally, so a '}' that closes
// a `${` resumes the template.
package lexer
