// Package parser implements the hand-written recursive-descent parser for
// ruulang source (spec §4.2). It turns UTF-8 source into an ordered
// sequence of top-level Statements, which Assemble then collates into a
// Schema and a SourceFile.
package parser

import (
	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/ruulangerrors"
	"github.com/zwade/ruulang/scanner"
	"github.com/zwade/ruulang/token"
)

// Parser walks a pre-lexed token stream. Comments are preserved in the raw
// stream so the top-level loop can collect docstrings; everywhere else
// comments are treated as insignificant whitespace.
type parser struct {
	toks []scanner.Token
	pos  int
}

// Parse lexes and parses src, returning its ordered top-level statements.
// Any grammar failure collapses to a single *ruulangerrors.ParseError
// carrying the offending byte offset (spec §4.2); parsing stops at the
// first such failure, matching the original LALRPOP-generated parser's
// single-shot behavior.
func Parse(src []byte) ([]Statement, error) {
	s := scanner.New(src)
	var toks []scanner.Token
	for {
		t := s.Next()
		toks = append(toks, t)
		if t.Kind == scanner.EOF {
			break
		}
	}

	p := &parser{toks: toks}
	return p.parseFile()
}

func (p *parser) rawTok() scanner.Token { return p.toks[p.pos] }

func (p *parser) advanceRaw() scanner.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// cur returns the next semantically meaningful token, skipping over any
// comments (which only carry meaning as docstrings, collected separately at
// the top level).
func (p *parser) cur() scanner.Token {
	for p.toks[p.pos].Kind == scanner.COMMENT {
		if p.pos >= len(p.toks)-1 {
			break
		}
		p.pos++
	}
	return p.toks[p.pos]
}

func (p *parser) advance() scanner.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errAt(offset int) error {
	return &ruulangerrors.ParseError{Offset: offset}
}

func (p *parser) expect(k scanner.Kind) (scanner.Token, error) {
	t := p.cur()
	if t.Kind != k {
		return t, p.errAt(t.Start)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (scanner.Token, error) {
	return p.expect(scanner.IDENT)
}

func (p *parser) expectKeyword(word string) (scanner.Token, error) {
	t := p.cur()
	if t.Kind != scanner.IDENT || t.Literal != word {
		return t, p.errAt(t.Start)
	}
	return p.advance(), nil
}

func (p *parser) parseFile() ([]Statement, error) {
	var stmts []Statement

	for {
		var pendingRaw []string
		for p.rawTok().Kind == scanner.COMMENT {
			lit := p.rawTok().Literal
			pendingRaw = append(pendingRaw, lit)
			stmts = append(stmts, Statement{Kind: StmtComment, Comment: lit})
			p.advanceRaw()
		}

		tok := p.cur()
		if tok.Kind == scanner.EOF {
			break
		}

		docstring := parseDocstrings(pendingRaw)

		switch {
		case tok.Kind == scanner.IDENT && tok.Literal == "entity":
			ent, err := p.parseEntity(docstring)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: StmtEntity, Entity: ent})

		case tok.Kind == scanner.IDENT && tok.Literal == "fragment":
			frag, err := p.parseFragment(docstring)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: StmtFragment, Fragment: frag})

		case tok.Kind == scanner.AT:
			ep, err := p.parseEntrypoint(docstring)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: StmtEntrypoint, Entrypoint: ep})

		default:
			return nil, p.errAt(tok.Start)
		}
	}

	return stmts, nil
}

// parseEntity parses `entity Name { (relationship | grant)* }`.
func (p *parser) parseEntity(docstring string) (ast.Parsed[ast.Entity], error) {
	var zero ast.Parsed[ast.Entity]

	start, err := p.expectKeyword("entity")
	if err != nil {
		return zero, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return zero, err
	}
	if _, err := p.expect(scanner.LBRACE); err != nil {
		return zero, err
	}

	var relationships []ast.Parsed[ast.Relationship]
	var grants []ast.Parsed[ast.Grant]

	for p.cur().Kind != scanner.RBRACE {
		if p.cur().Kind == scanner.EOF {
			return zero, p.errAt(p.cur().Start)
		}

		first, err := p.expectIdent()
		if err != nil {
			return zero, err
		}

		if p.cur().Kind == scanner.COLON {
			p.advance()
			target, err := p.expectIdent()
			if err != nil {
				return zero, err
			}
			if _, err := p.expect(scanner.LBRACE); err != nil {
				return zero, err
			}

			var attrs []ast.Parsed[ast.Attribute]
			for p.cur().Kind != scanner.RBRACE {
				if p.cur().Kind != scanner.COLON {
					return zero, p.errAt(p.cur().Start)
				}
				attr, err := p.parseAttribute()
				if err != nil {
					return zero, err
				}
				attrs = append(attrs, attr)
			}
			end, err := p.expect(scanner.RBRACE)
			if err != nil {
				return zero, err
			}

			rel := ast.Relationship{
				RelationshipName: ast.NewIdentifier(first.Literal, ast.IdentOther),
				EntityName:       ast.NewIdentifier(target.Literal, ast.IdentEntity),
				Attributes:       attrs,
			}
			relationships = append(relationships, ast.NewParsed(rel, token.Pos{Start: first.Start, End: end.End}, "", ""))
			continue
		}

		segs := []string{first.Literal}
		for p.cur().Kind == scanner.DOT {
			p.advance()
			seg, err := p.expectIdent()
			if err != nil {
				return zero, err
			}
			segs = append(segs, seg.Literal)
		}
		semi, err := p.expect(scanner.SEMI)
		if err != nil {
			return zero, err
		}
		grants = append(grants, ast.NewParsed(ast.NewGrant(segs), token.Pos{Start: first.Start, End: semi.End}, "", ""))
	}

	end, err := p.expect(scanner.RBRACE)
	if err != nil {
		return zero, err
	}

	entity := ast.Entity{
		Name:          ast.NewIdentifier(name.Literal, ast.IdentEntity),
		Relationships: relationships,
		Grants:        grants,
	}
	return ast.NewParsed(entity, token.Pos{Start: start.Start, End: end.End}, "", docstring), nil
}

// parseAttribute parses `:name` or `:name(arg, arg, ...)`.
func (p *parser) parseAttribute() (ast.Parsed[ast.Attribute], error) {
	var zero ast.Parsed[ast.Attribute]

	colon, err := p.expect(scanner.COLON)
	if err != nil {
		return zero, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return zero, err
	}

	var args []string
	end := name.End

	if p.cur().Kind == scanner.LPAREN {
		p.advance()
		if p.cur().Kind != scanner.RPAREN {
			for {
				arg, err := p.expectIdent()
				if err != nil {
					return zero, err
				}
				args = append(args, arg.Literal)
				if p.cur().Kind == scanner.COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		closeParen, err := p.expect(scanner.RPAREN)
		if err != nil {
			return zero, err
		}
		end = closeParen.End
	}

	attr := ast.Attribute{
		Name:      ast.NewParsed(ast.NewIdentifier(name.Literal, ast.IdentAttribute), token.Pos{Start: name.Start, End: name.End}, "", ""),
		Arguments: args,
	}
	return ast.NewParsed(attr, token.Pos{Start: colon.Start, End: end}, "", ""), nil
}

// parseFragment parses `fragment Name for Entity { (grant | rule)* }`.
func (p *parser) parseFragment(docstring string) (ast.Parsed[ast.Fragment], error) {
	var zero ast.Parsed[ast.Fragment]

	start, err := p.expectKeyword("fragment")
	if err != nil {
		return zero, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return zero, err
	}
	if _, err := p.expectKeyword("for"); err != nil {
		return zero, err
	}
	forEntity, err := p.expectIdent()
	if err != nil {
		return zero, err
	}
	if _, err := p.expect(scanner.LBRACE); err != nil {
		return zero, err
	}

	var grants []ast.Parsed[ast.Grant]
	var rules []ast.Parsed[ast.Rule]

	for p.cur().Kind != scanner.RBRACE {
		switch p.cur().Kind {
		case scanner.EOF:
			return zero, p.errAt(p.cur().Start)
		case scanner.STAR:
			rule, err := p.parseWildcardRule()
			if err != nil {
				return zero, err
			}
			rules = append(rules, rule)
		case scanner.IDENT:
			first := p.advance()
			if p.cur().Kind == scanner.DOT || p.cur().Kind == scanner.SEMI {
				grant, err := p.parseGrantTail(first)
				if err != nil {
					return zero, err
				}
				grants = append(grants, grant)
			} else {
				rule, err := p.parseNamedRuleFrom(first)
				if err != nil {
					return zero, err
				}
				rules = append(rules, rule)
			}
		default:
			return zero, p.errAt(p.cur().Start)
		}
	}

	end, err := p.expect(scanner.RBRACE)
	if err != nil {
		return zero, err
	}

	frag := ast.Fragment{
		Name:      ast.NewIdentifier(name.Literal, ast.IdentFragment),
		ForEntity: ast.NewIdentifier(forEntity.Literal, ast.IdentEntity),
		Grants:    grants,
		Rules:     rules,
	}
	return ast.NewParsed(frag, token.Pos{Start: start.Start, End: end.End}, "", docstring), nil
}

// parseEntrypoint parses `@Entity { rule* }`.
func (p *parser) parseEntrypoint(docstring string) (ast.Parsed[ast.Entrypoint], error) {
	var zero ast.Parsed[ast.Entrypoint]

	start, err := p.expect(scanner.AT)
	if err != nil {
		return zero, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return zero, err
	}
	if _, err := p.expect(scanner.LBRACE); err != nil {
		return zero, err
	}

	var rules []ast.Parsed[ast.Rule]
	for p.cur().Kind != scanner.RBRACE {
		switch p.cur().Kind {
		case scanner.EOF:
			return zero, p.errAt(p.cur().Start)
		case scanner.STAR:
			rule, err := p.parseWildcardRule()
			if err != nil {
				return zero, err
			}
			rules = append(rules, rule)
		case scanner.IDENT:
			first := p.advance()
			rule, err := p.parseNamedRuleFrom(first)
			if err != nil {
				return zero, err
			}
			rules = append(rules, rule)
		default:
			return zero, p.errAt(p.cur().Start)
		}
	}

	end, err := p.expect(scanner.RBRACE)
	if err != nil {
		return zero, err
	}

	ep := ast.Entrypoint{
		Entrypoint: ast.NewIdentifier(name.Literal, ast.IdentEntity),
		Rules:      rules,
	}
	return ast.NewParsed(ep, token.Pos{Start: start.Start, End: end.End}, "", docstring), nil
}

func (p *parser) parseWildcardRule() (ast.Parsed[ast.Rule], error) {
	star, err := p.expect(scanner.STAR)
	if err != nil {
		return ast.Parsed[ast.Rule]{}, err
	}
	rule := ast.Rule{Relationship: ast.NewIdentifier(ast.WildcardRelationship, ast.IdentRule)}
	return ast.NewParsed(rule, token.Pos{Start: star.Start, End: star.End}, "", ""), nil
}

// parseGrantTail finishes a grant path whose first segment has already been
// consumed as `first`.
func (p *parser) parseGrantTail(first scanner.Token) (ast.Parsed[ast.Grant], error) {
	segs := []string{first.Literal}
	for p.cur().Kind == scanner.DOT {
		p.advance()
		seg, err := p.expectIdent()
		if err != nil {
			return ast.Parsed[ast.Grant]{}, err
		}
		segs = append(segs, seg.Literal)
	}
	semi, err := p.expect(scanner.SEMI)
	if err != nil {
		return ast.Parsed[ast.Grant]{}, err
	}
	return ast.NewParsed(ast.NewGrant(segs), token.Pos{Start: first.Start, End: semi.End}, "", ""), nil
}

// parseNamedRuleFrom parses a non-wildcard rule whose relationship name has
// already been consumed as `first`: optional attributes, then a brace body
// of grants, fragment includes, and nested rules.
func (p *parser) parseNamedRuleFrom(first scanner.Token) (ast.Parsed[ast.Rule], error) {
	var zero ast.Parsed[ast.Rule]

	var attrs []ast.Parsed[ast.Attribute]
	for p.cur().Kind == scanner.COLON {
		attr, err := p.parseAttribute()
		if err != nil {
			return zero, err
		}
		attrs = append(attrs, attr)
	}

	if _, err := p.expect(scanner.LBRACE); err != nil {
		return zero, err
	}

	var grants []ast.Parsed[ast.Grant]
	var includes []ast.Parsed[ast.Identifier]
	var rules []ast.Parsed[ast.Rule]

	for p.cur().Kind != scanner.RBRACE {
		switch p.cur().Kind {
		case scanner.EOF:
			return zero, p.errAt(p.cur().Start)
		case scanner.STAR:
			rule, err := p.parseWildcardRule()
			if err != nil {
				return zero, err
			}
			rules = append(rules, rule)
		case scanner.HASH:
			hash := p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return zero, err
			}
			semi, err := p.expect(scanner.SEMI)
			if err != nil {
				return zero, err
			}
			includes = append(includes, ast.NewParsed(ast.NewIdentifier(name.Literal, ast.IdentFragment), token.Pos{Start: hash.Start, End: semi.End}, "", ""))
		case scanner.IDENT:
			inner := p.advance()
			if p.cur().Kind == scanner.DOT || p.cur().Kind == scanner.SEMI {
				grant, err := p.parseGrantTail(inner)
				if err != nil {
					return zero, err
				}
				grants = append(grants, grant)
			} else {
				rule, err := p.parseNamedRuleFrom(inner)
				if err != nil {
					return zero, err
				}
				rules = append(rules, rule)
			}
		default:
			return zero, p.errAt(p.cur().Start)
		}
	}

	end, err := p.expect(scanner.RBRACE)
	if err != nil {
		return zero, err
	}

	rule := ast.Rule{
		Relationship:     ast.NewIdentifier(first.Literal, ast.IdentRule),
		Attributes:       attrs,
		Grants:           grants,
		Rules:            rules,
		IncludeFragments: includes,
	}
	return ast.NewParsed(rule, token.Pos{Start: first.Start, End: end.End}, "", ""), nil
}
