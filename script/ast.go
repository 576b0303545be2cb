package script

// Pos is the source position of a syntax node.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) pos() Pos { return p }

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	pos() Pos
	exprNode()
}

// Stmt is a statement node. The set of implementations is closed.
type Stmt interface {
	pos() Pos
	stmtNode()
}

type (
	Name struct {
		Pos
		ID string
	}

	Constant struct {
		Pos
		Value Value
	}

	TupleExpr struct {
		Pos
		Elts []Expr
	}

	ListExpr struct {
		Pos
		Elts []Expr
	}

	SetExpr struct {
		Pos
		Elts []Expr
	}

	// DictExpr is a dict display. A nil key marks a **mapping unpack in Values.
	DictExpr struct {
		Pos
		Keys   []Expr
		Values []Expr
	}

	Starred struct {
		Pos
		Value Expr
	}

	BinOp struct {
		Pos
		Op    string
		Left  Expr
		Right Expr
	}

	UnaryOp struct {
		Pos
		Op      string
		Operand Expr
	}

	BoolOp struct {
		Pos
		Op     string
		Values []Expr
	}

	Compare struct {
		Pos
		Left        Expr
		Ops         []string
		Comparators []Expr
	}

	IfExp struct {
		Pos
		Test   Expr
		Body   Expr
		OrElse Expr
	}

	Lambda struct {
		Pos
		Args *Arguments
		Body Expr
	}

	CallExpr struct {
		Pos
		Func     Expr
		Args     []Expr
		Keywords []*KeywordArg
	}

	Attribute struct {
		Pos
		Value Expr
		Attr  string
	}

	Subscript struct {
		Pos
		Value Expr
		Index Expr
	}

	Slice struct {
		Pos
		Lower Expr
		Upper Expr
		Step  Expr
	}

	ListComp struct {
		Pos
		Elt  Expr
		Gens []*Comprehension
	}

	SetComp struct {
		Pos
		Elt  Expr
		Gens []*Comprehension
	}

	DictComp struct {
		Pos
		Key   Expr
		Value Expr
		Gens  []*Comprehension
	}

	GeneratorExp struct {
		Pos
		Elt  Expr
		Gens []*Comprehension
	}

	Yield struct {
		Pos
		Value Expr
	}

	YieldFrom struct {
		Pos
		Value Expr
	}
)

// KeywordArg is a name=value call argument. An empty Name marks a **mapping unpack.
type KeywordArg struct {
	Name  string
	Value Expr
}

// Comprehension is one "for target in iter if cond..." clause.
type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// Param is one positional or keyword-only parameter.
type Param struct {
	Name    string
	Default Expr
}

// Arguments is a function signature.
type Arguments struct {
	Params []Param
	Vararg string
	KwOnly []Param
	Kwarg  string
}

func (*Name) exprNode()         {}
func (*Constant) exprNode()     {}
func (*TupleExpr) exprNode()    {}
func (*ListExpr) exprNode()     {}
func (*SetExpr) exprNode()      {}
func (*DictExpr) exprNode()     {}
func (*Starred) exprNode()      {}
func (*BinOp) exprNode()        {}
func (*UnaryOp) exprNode()      {}
func (*BoolOp) exprNode()       {}
func (*Compare) exprNode()      {}
func (*IfExp) exprNode()        {}
func (*Lambda) exprNode()       {}
func (*CallExpr) exprNode()     {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*Slice) exprNode()        {}
func (*ListComp) exprNode()     {}
func (*SetComp) exprNode()      {}
func (*DictComp) exprNode()     {}
func (*GeneratorExp) exprNode() {}
func (*Yield) exprNode()        {}
func (*YieldFrom) exprNode()    {}

type (
	ExprStmt struct {
		Pos
		X Expr
	}

	// Assign is "t1 = t2 = value".
	Assign struct {
		Pos
		Targets []Expr
		Value   Expr
	}

	AugAssign struct {
		Pos
		Target Expr
		Op     string
		Value  Expr
	}

	If struct {
		Pos
		Test   Expr
		Body   []Stmt
		OrElse []Stmt
	}

	For struct {
		Pos
		Target Expr
		Iter   Expr
		Body   []Stmt
		OrElse []Stmt
	}

	While struct {
		Pos
		Test   Expr
		Body   []Stmt
		OrElse []Stmt
	}

	Break struct {
		Pos
	}

	Continue struct {
		Pos
	}

	Pass struct {
		Pos
	}

	Return struct {
		Pos
		Value Expr
	}

	FunctionDef struct {
		Pos
		Name        string
		Args        *Arguments
		Body        []Stmt
		IsGenerator bool
	}

	Raise struct {
		Pos
		Exc Expr
	}

	Assert struct {
		Pos
		Test Expr
		Msg  Expr
	}

	Delete struct {
		Pos
		Targets []Expr
	}

	Global struct {
		Pos
		Names []string
	}

	Nonlocal struct {
		Pos
		Names []string
	}

	// Import is parsed so that templates may contain it, but it always fails at run time.
	Import struct {
		Pos
		Module string
	}
)

func (*ExprStmt) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Return) stmtNode()      {}
func (*FunctionDef) stmtNode() {}
func (*Raise) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*Import) stmtNode()      {}

// Module is a parsed source file or fragment.
type Module struct {
	Body []Stmt
}
