package symbols

import "strings"

// SymbolFlags describe what kind of declaration introduced a symbol. They are
// fixed at creation and drive redeclaration checks through Excludes.
type SymbolFlags uint16

const (
	FunctionScopedVariable SymbolFlags = 1 << iota // var, parameters
	BlockScopedVariable                            // let, const
	ConstVariable
	Import
	Export
	Class
	CatchVariable
	Function
	Enum      // TypeScript enum
	Namespace // TypeScript namespace or module with a body
)

const (
	Variable = FunctionScopedVariable | BlockScopedVariable
	Value    = Variable | Class

	// var may redeclare var, nothing else in the value space
	FunctionScopedVariableExcludes = Value &^ FunctionScopedVariable
	BlockScopedVariableExcludes    = Value
	ClassExcludes                  = Value
	ImportExcludes                 = Value | Import
	CatchVariableExcludes          = BlockScopedVariable | Class | CatchVariable
	// enums merge with enums and namespaces, namespaces also merge with
	// functions and classes
	EnumExcludes      = Value | Import
	NamespaceExcludes = Variable | Import
)

func (f SymbolFlags) Has(mask SymbolFlags) bool { return f&mask == mask }

func (f SymbolFlags) Any(mask SymbolFlags) bool { return f&mask != 0 }

// Excludes returns the flags a symbol with f may not share a name with in
// the same effective scope.
func (f SymbolFlags) Excludes() SymbolFlags {
	var ex SymbolFlags
	if f.Any(FunctionScopedVariable) {
		ex |= FunctionScopedVariableExcludes
	}
	if f.Any(BlockScopedVariable) {
		ex |= BlockScopedVariableExcludes
	}
	if f.Any(Class) {
		ex |= ClassExcludes
	}
	if f.Any(Import) {
		ex |= ImportExcludes
	}
	if f.Any(CatchVariable) {
		ex |= CatchVariableExcludes
	}
	if f.Any(Enum) {
		ex |= EnumExcludes
	}
	if f.Any(Namespace) {
		ex |= NamespaceExcludes
	}
	return ex
}

// ConflictsWith reports whether two declarations of one name clash. The
// check is symmetric.
func (f SymbolFlags) ConflictsWith(other SymbolFlags) bool {
	return f&other.Excludes() != 0 || other&f.Excludes() != 0
}

var flagLabels = [...]struct {
	flag  SymbolFlags
	label string
}{
	{FunctionScopedVariable, "var"},
	{BlockScopedVariable, "let"},
	{ConstVariable, "const"},
	{Import, "import"},
	{Export, "export"},
	{Class, "class"},
	{CatchVariable, "catch"},
	{Function, "function"},
	{Enum, "enum"},
	{Namespace, "namespace"},
}

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	for _, l := range flagLabels {
		if f&l.flag != 0 {
			labels = append(labels, l.label)
		}
	}
	return labels
}

func (f SymbolFlags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Strings(), "|")
}

// Kind names the declaration for messages: "const", "let", "class"...
func (f SymbolFlags) Kind() string {
	switch {
	case f.Any(ConstVariable):
		return "const"
	case f.Any(BlockScopedVariable):
		return "let"
	case f.Any(FunctionScopedVariable):
		return "var"
	case f.Any(Class):
		return "class"
	case f.Any(Function):
		return "function"
	case f.Any(Enum):
		return "enum"
	case f.Any(Namespace):
		return "namespace"
	case f.Any(Import):
		return "import"
	case f.Any(CatchVariable):
		return "catch parameter"
	}
	return "binding"
}

// ReferenceFlags record how an identifier is used.
type ReferenceFlags uint8

const (
	Read ReferenceFlags = 1 << iota
	Write

	ReadWrite = Read | Write
)

func (f ReferenceFlags) IsRead() bool  { return f&Read != 0 }
func (f ReferenceFlags) IsWrite() bool { return f&Write != 0 }

func (f ReferenceFlags) String() string {
	switch f {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	}
	return "none"
}
