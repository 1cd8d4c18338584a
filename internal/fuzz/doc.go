// Package fuzztests houses Go fuzz harnesses that exercise the binder
// pipeline (source -> lexer -> parser -> semantic). Its goal is to smoke
// test robustness and guard against panics, hangs or broken table
// invariants on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и семантический проход.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
