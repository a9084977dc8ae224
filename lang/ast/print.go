// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// String renders the subtree rooted at id as a parenthesised expression,
// e.g. (assign x (plus x 1)). It is meant for tests and debug output.
func (t *Tree) String(id NodeID) string {
	var b bytes.Buffer
	t.write(&b, id)
	return b.String()
}

func (t *Tree) writeList(b *bytes.Buffer, ids []NodeID) {
	for _, id := range ids {
		b.WriteByte(' ')
		t.write(b, id)
	}
}

func (t *Tree) write(b *bytes.Buffer, id NodeID) {
	switch n := t.Node(id).(type) {
	case nil:
		b.WriteString("<nil>")
	case *Program:
		b.WriteString("(program")
		t.writeList(b, n.Decls)
		b.WriteByte(')')
	case *EOF:
		b.WriteString("<eof>")
	case *VarDecl:
		b.WriteString("(var_decl " + n.Sym.Name + " " + n.Type.String() + ")")
	case *ConstDecl:
		b.WriteString("(const_decl " + n.Sym.Name + " " + strconv.FormatInt(n.Value, 10) + ")")
	case *RoutineDecl:
		b.WriteString("(routine_decl " + n.Sym.Signature() + " ")
		t.write(b, n.Body)
		b.WriteByte(')')
	case *Assign:
		b.WriteString("(assign " + n.Target.Name + " ")
		t.write(b, n.Value)
		b.WriteByte(')')
	case *If:
		b.WriteString("(if")
		t.writeList(b, []NodeID{n.Cond, n.Then})
		if n.Else != NoNode {
			t.writeList(b, []NodeID{n.Else})
		}
		b.WriteByte(')')
	case *While:
		b.WriteString("(while")
		t.writeList(b, []NodeID{n.Cond, n.Body})
		b.WriteByte(')')
	case *For:
		b.WriteString("(for " + n.Var.Name)
		t.writeList(b, []NodeID{n.From, n.To, n.Body})
		b.WriteByte(')')
	case *Read:
		b.WriteString("(read " + n.Var.Name + ")")
	case *Write:
		b.WriteString("(write " + n.Var.Name + ")")
	case *Call:
		b.WriteString("(call " + n.Callee.Name)
		t.writeList(b, n.Args)
		b.WriteByte(')')
	case *Block:
		b.WriteString("(block")
		t.writeList(b, n.Decls)
		t.writeList(b, n.Stmts)
		b.WriteByte(')')
	case *Return:
		b.WriteString("(return ")
		t.write(b, n.Value)
		b.WriteByte(')')
	case *VarRef:
		b.WriteString(n.Sym.Name)
	case *IntLit:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *FloatLit:
		s := strconv.FormatFloat(n.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		b.WriteString(s)
	case *StringLit:
		b.WriteString(strconv.Quote(n.Value))
	case *BoolLit:
		b.WriteString(strconv.FormatBool(n.Value))
	case *Binary:
		b.WriteString("(" + n.Kind().String())
		t.writeList(b, []NodeID{n.Left, n.Right})
		b.WriteByte(')')
	case *Unary:
		b.WriteString("(" + n.Kind().String() + " ")
		t.write(b, n.Operand)
		b.WriteByte(')')
	}
}
