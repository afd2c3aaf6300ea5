package symtab

import (
	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/graph"
)

// BindingKind identifies which declaration kind a Binding carries.
type BindingKind uint8

const (
	// ConstantKind is bound to a ConstBinding.
	ConstantKind BindingKind = iota
	// TraceKind is bound to a TraceBinding.
	TraceKind
	// PublicInputKind is bound to a PublicInputBinding.
	PublicInputKind
	// PeriodicColumnKind is bound to a PeriodicColumnBinding.
	PeriodicColumnKind
	// RandomArrayKind is bound to a RandomArrayBinding.
	RandomArrayKind
	// RandomElementKind is bound to a RandomElementBinding.
	RandomElementKind
	// LocalKind is bound to a LocalBinding.
	LocalKind
	// EvaluatorKind is bound to an EvaluatorBinding.
	EvaluatorKind
)

// Binding is a resolved declaration: what an identifier refers to once the
// symbol table has found it.  The expression compiler (pkg/lower) switches
// on the concrete binding type to decide how to interpret an access path
// against it.
type Binding interface {
	Kind() BindingKind
}

// ConstBinding is a module-level constant: a scalar, vector or matrix of
// arbitrary-precision integers.
type ConstBinding struct {
	Decl *ast.ConstDecl
}

// Kind implements Binding.
func (ConstBinding) Kind() BindingKind { return ConstantKind }

// TraceBinding is a trace column or column group.  Column is the starting
// column index within Segment, assigned by the symbol table in
// declaration order; Width is 1 for a single column.
type TraceBinding struct {
	Segment graph.Segment
	Column  uint
	Width   uint
}

// Kind implements Binding.
func (TraceBinding) Kind() BindingKind { return TraceKind }

// PublicInputBinding is a named, fixed-length public input array.
// Ordinal is assigned by the symbol table in declaration order.
type PublicInputBinding struct {
	Ordinal uint
	Length  uint
}

// Kind implements Binding.
func (PublicInputBinding) Kind() BindingKind { return PublicInputKind }

// PeriodicColumnBinding is a periodic column.  Ordinal is this column's
// position in the module's declaration order, matching its position in
// the IR's periodic-columns table.
type PeriodicColumnBinding struct {
	Ordinal uint
	Length  uint
	Decl    *ast.PeriodicColumnDecl
}

// Kind implements Binding.
func (PeriodicColumnBinding) Kind() BindingKind { return PeriodicColumnKind }

// RandomArrayBinding is the module's single random-values array.  Offset
// is always 0; it is carried for symmetry with RandomElementBinding so
// that both kinds can be range-checked the same way.
type RandomArrayBinding struct {
	Offset uint
	Length uint
}

// Kind implements Binding.
func (RandomArrayBinding) Kind() BindingKind { return RandomArrayKind }

// RandomElementBinding names an individual element or sub-group of the
// random-values array.  Offset is its absolute starting index.
type RandomElementBinding struct {
	Offset uint
	Width  uint
}

// Kind implements Binding.
func (RandomElementBinding) Kind() BindingKind { return RandomElementKind }

// LocalBinding is a let-bound local variable. Value
// is substituted at every use site during lowering; a LocalBinding never
// survives into the IR.
type LocalBinding struct {
	Value ast.Expr
}

// Kind implements Binding.
func (LocalBinding) Kind() BindingKind { return LocalKind }

// EvaluatorBinding names a reusable, constraint-valued function. It is
// declared into the symbol table only so evaluator names participate in
// module-wide uniqueness checking; calls are resolved through a separate
// table keyed by name, since call syntax is not identifier resolution.
type EvaluatorBinding struct {
	Decl *ast.EvaluatorDecl
}

// Kind implements Binding.
func (EvaluatorBinding) Kind() BindingKind { return EvaluatorKind }
