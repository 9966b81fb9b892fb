package parser

import (
	"strconv"
	"strings"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

// exprParser parses the small value/condition/effect grammar shared by
// conditions, where-clauses and effects. It operates on already-isolated
// text with a span covering the whole text, so reported columns are
// approximate for multi-token lines; this matches the line-level
// diagnostic granularity used elsewhere in the parser.
type exprParser struct {
	fileID source.FileID
	fs     *source.FileSet
	rep    diag.Reporter
}

func (p *exprParser) parseValue(tok string, sp source.Span) ast.Expr {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "true":
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprBool, Bool: true}
	case tok == "false":
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprBool, Bool: false}
	case tok == "player" || tok == "here":
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprKeyword, Str: tok}
	case strings.HasPrefix(tok, "@"):
		ent, prop, ok := splitEntityProp(tok)
		if ok {
			return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprPropertyRef, EntityRef: ast.Ref{Raw: ent}, Property: prop}
		}
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprPropertyRef, EntityRef: ast.Ref{Raw: strings.TrimPrefix(tok, "@")}}
	case len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"':
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprString, Str: tok[1 : len(tok)-1]}
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprInt, Int: i}
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprFloat, Flt: f}
	}
	return ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprIdent, Str: tok}
}

// splitEntityProp splits "@entity.prop" into ("entity", "prop", true).
func splitEntityProp(tok string) (entity, prop string, ok bool) {
	tok = strings.TrimPrefix(tok, "@")
	idx := strings.Index(tok, ".")
	if idx < 0 {
		return tok, "", false
	}
	return tok[:idx], tok[idx+1:], true
}

var compareOps = []struct {
	text string
	op   ast.CompareOp
}{
	{"==", ast.OpEq},
	{"!=", ast.OpNe},
	{"<=", ast.OpLe},
	{">=", ast.OpGe},
	{"<", ast.OpLt},
	{">", ast.OpGt},
}

// parseCondition parses one condition expression (spec §3.2
// "Conditions"): a property comparison, a containment check, or an
// exhaustion check.
func (p *exprParser) parseCondition(text string, sp source.Span) ast.ConditionExpr {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)

	if len(fields) >= 2 && fields[0] == "exhausted" {
		name := strings.TrimSpace(strings.TrimPrefix(text, "exhausted"))
		return &ast.ExhaustionCheck{Base: ast.Base{Span: sp}, SectionName: name}
	}

	negated := false
	rest := text
	if strings.HasPrefix(rest, "not ") {
		negated = true
		rest = strings.TrimPrefix(rest, "not ")
	}
	if strings.HasPrefix(rest, "@") {
		if idx := strings.Index(rest, " in "); idx >= 0 {
			ent := strings.TrimSpace(rest[:idx])
			container := strings.TrimSpace(rest[idx+len(" in "):])
			kind, target := classifyContainer(container)
			return &ast.ContainmentCheck{
				Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: strings.TrimPrefix(ent, "@")},
				ContainerRaw: container, ContainerKind: kind, ContainerTarget: target, Negated: negated,
			}
		}
	}

	for _, op := range compareOps {
		if idx := strings.Index(text, op.text); idx >= 0 {
			lhs := strings.TrimSpace(text[:idx])
			rhs := strings.TrimSpace(text[idx+len(op.text):])
			ent, prop, ok := splitEntityProp(lhs)
			if !ok {
				diag.Error(p.rep, diag.ParseInvalidConditionExpr, sp, "left-hand side of comparison must be \"@entity.property\"")
				return &ast.PropertyComparison{Base: ast.Base{Span: sp}, Op: op.op, Value: p.parseValue(rhs, sp)}
			}
			return &ast.PropertyComparison{
				Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: ent}, Property: prop,
				Op: op.op, Value: p.parseValue(rhs, sp),
			}
		}
	}

	diag.Error(p.rep, diag.ParseInvalidConditionExpr, sp, "could not parse condition \""+text+"\"")
	return &ast.PropertyComparison{Base: ast.Base{Span: sp}, Value: ast.Expr{Base: ast.Base{Span: sp}, Kind: ast.ExprBool}}
}

func classifyContainer(raw string) (ast.ContainerKind, string) {
	switch {
	case raw == "player":
		return ast.ContainerKeywordPlayer, ""
	case raw == "here":
		return ast.ContainerKeywordHere, ""
	case strings.HasPrefix(raw, "@"):
		return ast.ContainerEntityRef, strings.TrimPrefix(raw, "@")
	default:
		return ast.ContainerLocationRef, raw
	}
}

// parseEffect parses one effect line body (text after "> ").
func (p *exprParser) parseEffect(text string, sp source.Span) ast.EffectKind {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "set "):
		return p.parseSet(strings.TrimPrefix(text, "set "), sp)
	case strings.HasPrefix(text, "move "):
		return p.parseMove(strings.TrimPrefix(text, "move "), sp)
	case strings.HasPrefix(text, "reveal "):
		ent, prop, _ := splitEntityProp(strings.TrimSpace(strings.TrimPrefix(text, "reveal ")))
		return &ast.Reveal{Base: ast.Base{Span: sp}, TargetEntity: ast.Ref{Raw: ent}, TargetProp: prop}
	case strings.HasPrefix(text, "destroy "):
		ent := strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(text, "destroy ")), "@")
		return &ast.Destroy{Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: ent}}
	}
	diag.Error(p.rep, diag.ParseInvalidEffect, sp, "unrecognised effect \""+text+"\"")
	return &ast.Set{Base: ast.Base{Span: sp}}
}

func (p *exprParser) parseSet(rest string, sp source.Span) ast.EffectKind {
	op := ast.SetAssign
	opText := "="
	switch {
	case strings.Contains(rest, "+="):
		op, opText = ast.SetAdd, "+="
	case strings.Contains(rest, "-="):
		op, opText = ast.SetSub, "-="
	}
	idx := strings.Index(rest, opText)
	if idx < 0 {
		diag.Error(p.rep, diag.ParseInvalidEffect, sp, "expected \"set @entity.prop = value\"")
		return &ast.Set{Base: ast.Base{Span: sp}}
	}
	lhs := strings.TrimSpace(rest[:idx])
	rhs := strings.TrimSpace(rest[idx+len(opText):])
	ent, prop, _ := splitEntityProp(lhs)
	return &ast.Set{Base: ast.Base{Span: sp}, TargetEntity: ast.Ref{Raw: ent}, TargetProp: prop, Op: op, ValueExpr: p.parseValue(rhs, sp)}
}

func (p *exprParser) parseMove(rest string, sp source.Span) ast.EffectKind {
	idx := strings.Index(rest, "->")
	if idx < 0 {
		diag.Error(p.rep, diag.ParseInvalidEffect, sp, "expected \"move @entity -> destination\"")
		return &ast.Move{Base: ast.Base{Span: sp}}
	}
	ent := strings.TrimPrefix(strings.TrimSpace(rest[:idx]), "@")
	dest := strings.TrimSpace(rest[idx+2:])
	dest = strings.TrimPrefix(dest, "@")
	return &ast.Move{Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: ent}, DestinationRef: ast.Ref{Raw: dest}}
}
