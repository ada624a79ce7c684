package transform

import (
	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

var builtinNames = map[syntax.ExprKind]string{
	syntax.KindNull:             "___asn1_NULL_t",
	syntax.KindObjectIdentifier: "objid",
	syntax.KindInteger:          "integer",
	syntax.KindReal:             "float",
	syntax.KindBoolean:          "boolean",
	syntax.KindBitString:        "bitstring",
	syntax.KindOctetString:      "octetstring",
	syntax.KindCharacterString:  "charstring",
}

// lowerOutermost lowers a module member into a declaration, or returns a
// nil id for members with no TTCN-3 counterpart.
func (l *lowerer) lowerOutermost(e *syntax.Expr) ast.NodeID {
	if e.IsParametrized() {
		// only instantiations are emitted
		return ast.NodeID{}
	}

	switch e.Meta {
	case syntax.MetaValue:
		return l.lowerValueDecl(e)
	case syntax.MetaObjectClass, syntax.MetaValueSet:
		return ast.NodeID{}
	}

	switch e.Kind {
	case syntax.KindSequence:
		return l.lowerStruct(ast.TokRecord, e)
	case syntax.KindSet:
		return l.lowerStruct(ast.TokSet, e)
	case syntax.KindChoice:
		return l.lowerStruct(ast.TokUnion, e)
	case syntax.KindSequenceOf:
		return l.lowerListDecl(ast.TokRecord, e)
	case syntax.KindSetOf:
		return l.lowerListDecl(ast.TokSet, e)
	case syntax.KindEnumerated:
		return l.lowerEnum(e)
	}

	spec := l.lowerExpr(e)
	if spec.IsNil() || !l.nodes.Node(spec).Kind.IsTypeSpec() {
		return spec
	}
	sp := l.nodes.Node(spec).Span
	var field ast.NodeID
	decl := l.newNode(ast.KindSubTypeDecl, func(_ ast.NodeID, n *ast.Node) {
		n.Span = sp
		field = l.newNode(ast.KindField, func(_ ast.NodeID, f *ast.Node) {
			f.Span = sp
			f.Type = spec
			f.Name = l.name(e.IdentRange)
		})
		n.Type = field
	})
	l.adopt(field, spec)
	return decl
}

// lowerExpr lowers e in a type position. The result is a type spec, an
// Ident for some references, or nil.
func (l *lowerer) lowerExpr(e *syntax.Expr) ast.NodeID {
	switch e.Kind {
	case syntax.KindSequence:
		return l.lowerStructSpec(ast.TokRecord, e)
	case syntax.KindSet:
		return l.lowerStructSpec(ast.TokSet, e)
	case syntax.KindChoice:
		return l.lowerStructSpec(ast.TokUnion, e)
	case syntax.KindSequenceOf:
		return l.lowerListSpec(ast.TokRecord, e)
	case syntax.KindSetOf:
		return l.lowerListSpec(ast.TokSet, e)
	case syntax.KindEnumerated:
		return l.lowerEnumSpec(e)
	case syntax.KindReference:
		return l.lowerTypeReference(e)
	case syntax.KindExtensible, syntax.KindExtensionGroup:
		return ast.NodeID{}
	case syntax.KindRestrictedString:
		return l.refSpec(func() ast.NodeID {
			return l.ident(l.consumeRange(e.TypeRange))
		})
	}
	if _, ok := builtinNames[e.Kind]; ok {
		return l.refSpec(func() ast.NodeID { return l.lowerBuiltin(e) })
	}
	return ast.NodeID{}
}

func (l *lowerer) lowerBuiltin(e *syntax.Expr) ast.NodeID {
	name, ok := builtinNames[e.Kind]
	if !ok {
		return ast.NodeID{}
	}
	return l.ident(l.appendSource(name, false))
}

func (l *lowerer) ident(sp source.Span) ast.NodeID {
	return l.newNode(ast.KindIdent, func(_ ast.NodeID, n *ast.Node) {
		n.Span = sp
	})
}

// refSpec wraps the Ident built by inner in a RefSpec.
func (l *lowerer) refSpec(inner func() ast.NodeID) ast.NodeID {
	return l.newNode(ast.KindRefSpec, func(_ ast.NodeID, n *ast.Node) {
		n.Type = inner()
		if !n.Type.IsNil() {
			n.Span = l.nodes.Node(n.Type).Span
		}
	})
}

func (l *lowerer) lowerTypeReference(e *syntax.Expr) ast.NodeID {
	id := l.lowerTypeName(e)
	if id.IsNil() {
		return id
	}
	n := l.nodes.Node(id)
	if n.Kind.IsTypeSpec() {
		return id
	}
	sp := n.Span
	rs := l.newNode(ast.KindRefSpec, func(_ ast.NodeID, r *ast.Node) {
		r.Type = id
		r.Span = sp
	})
	l.adopt(rs, id)
	return rs
}

func (l *lowerer) lowerValueDecl(e *syntax.Expr) ast.NodeID {
	if e.Kind == syntax.KindReference && l.isClassRef(e.Reference) {
		// information objects have no TTCN-3 counterpart
		return ast.NodeID{}
	}
	return l.newNode(ast.KindValueDecl, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Tok = ast.TokConst
		if e.Kind == syntax.KindReference {
			n.Type = l.lowerTypeName(e)
		} else {
			n.Type = l.lowerBuiltin(e)
		}
		n.Children = append(n.Children, l.newNode(ast.KindDeclarator, func(_ ast.NodeID, d *ast.Node) {
			d.Span = e.IdentRange
			d.Name = l.name(e.IdentRange)
		}))
	})
}

func (l *lowerer) lowerStruct(tok ast.Token, e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindStructTypeDecl, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Tok = tok
		n.Name = l.name(e.IdentRange)
		n.Children = l.lowerComponents(e.Members)
	})
}

func (l *lowerer) lowerStructSpec(tok ast.Token, e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindStructSpec, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Tok = tok
		n.Children = l.lowerComponents(e.Members)
	})
}

// lowerComponents lowers the members of a SEQUENCE, SET or CHOICE under
// the current parent. Extension addition groups are either flattened or,
// with asn1-eag-grouping, turned into one optional record field each.
func (l *lowerer) lowerComponents(members []*syntax.Expr) []ast.NodeID {
	var fields []ast.NodeID
	version := 1
	for _, m := range members {
		if m.Kind != syntax.KindExtensionGroup {
			if f := l.lowerComponent(m); !f.IsNil() {
				fields = append(fields, f)
			}
			continue
		}

		if m.Version > 0 {
			version = m.Version
		} else {
			version++
		}
		l.maxVersion = max(l.maxVersion, version)
		if !l.opts.Extensions.EAGGrouping() {
			fields = append(fields, l.lowerComponents(m.Members)...)
			continue
		}
		fields = append(fields, l.lowerGroup(m, version))
	}
	return fields
}

func (l *lowerer) lowerGroup(g *syntax.Expr, version int) ast.NodeID {
	return l.newNode(ast.KindField, func(id ast.NodeID, f *ast.Node) {
		f.Span = g.Range
		f.Optional = true
		f.Name.Valid = true
		l.versioned = append(l.versioned, versionedName{node: id, version: version})
		f.Type = l.newNode(ast.KindStructSpec, func(_ ast.NodeID, s *ast.Node) {
			s.Span = g.Range
			s.Tok = ast.TokRecord
			s.Children = l.lowerComponents(g.Members)
		})
	})
}

func (l *lowerer) lowerComponent(se *syntax.Expr) ast.NodeID {
	spec := l.lowerExpr(se)
	if spec.IsNil() {
		return spec
	}
	field := l.newNode(ast.KindField, func(_ ast.NodeID, f *ast.Node) {
		f.Span = se.Range
		f.Name = l.name(se.IdentRange)
		switch {
		case se.Marker.Has(syntax.MarkDefault):
		case se.Marker.Has(syntax.MarkOptional):
			f.Optional = true
		}
		f.Type = spec
	})
	l.adopt(field, spec)
	return field
}

func (l *lowerer) lowerEnum(e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindEnumTypeDecl, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Name = l.name(e.IdentRange)
		n.Children = l.lowerEnumValues(e.Members)
	})
}

func (l *lowerer) lowerEnumSpec(e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindEnumSpec, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Children = l.lowerEnumValues(e.Members)
	})
}

func (l *lowerer) lowerEnumValues(members []*syntax.Expr) []ast.NodeID {
	values := make([]ast.NodeID, 0, len(members))
	for _, m := range members {
		if m.Kind == syntax.KindExtensible {
			continue
		}
		values = append(values, l.ident(l.consumeRange(m.IdentRange)))
	}
	return values
}

func (l *lowerer) lowerListSpec(tok ast.Token, e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindListSpec, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Tok = tok
		if len(e.Members) == 0 {
			return
		}
		n.Type = l.lowerExpr(e.Members[0])
		if n.Type.IsNil() {
			l.errorf(e.Members[0].Range, diag.TrUnsupportedConstruct, "unsupported element type '%s'", e.Members[0].Kind)
		}
	})
}

func (l *lowerer) lowerListDecl(tok ast.Token, e *syntax.Expr) ast.NodeID {
	return l.newNode(ast.KindSubTypeDecl, func(_ ast.NodeID, n *ast.Node) {
		n.Span = e.Range
		n.Type = l.newNode(ast.KindField, func(_ ast.NodeID, f *ast.Node) {
			f.Span = e.Range
			f.Type = l.lowerListSpec(tok, e)
			f.Name = l.name(e.IdentRange)
		})
	})
}
