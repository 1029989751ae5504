// Package parser is the single-pass recursive-descent parser (C2).
// It consumes the tokens produced by internal/tokenizer and builds the
// typed tree defined in internal/ast. Grammar (spec.md §4.2):
//
//	chain     := cmd (('|' | ';') cmd)*
//	cmd       := simple | if_else | for_loop | empty
//	simple    := WORD+ redir*
//	redir     := '<' WORD | ('>' | '>>' | '>|') WORD | ('2>' | '2>>' | '2>|') WORD
//	if_else   := 'if' chain body ('else' body)?
//	for_loop  := 'for' CHAR 'in' WORD option* body
//	option    := '-A' | '-r' | '-e' WORD | '-t' CHAR | '-p' INT
//	body      := '{' chain '}'
package parser

import (
	"strconv"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/tokenizer"
)

// Parse tokenizes and parses a full line. It returns a typed *Error on
// failure (never a bare error), matching spec.md §7's Syntax/For-option
// split.
func Parse(line string) (*ast.Command, error) {
	toks := tokenizer.Tokenize(line)
	p := &parser{toks: toks}

	cmd, err := p.parseChain(nil)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, syntaxErrf("syntax error near unexpected token %q", p.toks[p.pos])
	}
	return cmd, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func isRedirOp(tok string) (ast.RedirMode, bool, bool) {
	// returns (mode, isErrStream, ok)
	switch tok {
	case "<":
		return ast.ModeNone, false, true
	case ">":
		return ast.ModeCreateExclusive, false, true
	case ">>":
		return ast.ModeAppend, false, true
	case ">|":
		return ast.ModeTruncate, false, true
	case "2>":
		return ast.ModeCreateExclusive, true, true
	case "2>>":
		return ast.ModeAppend, true, true
	case "2>|":
		return ast.ModeTruncate, true, true
	}
	return ast.ModeNone, false, false
}

func isChainOp(tok string) bool { return tok == "|" || tok == ";" }

// parseChain parses cmd (('|' | ';') cmd)* until it hits a token in
// terminators, an unrecognized token, or end of input. terminators may
// be nil (top level: only end of input stops the chain).
func (p *parser) parseChain(terminators map[string]bool) (*ast.Command, error) {
	head, err := p.parseCmd(terminators)
	if err != nil {
		return nil, err
	}

	cur := head
	for {
		tok, ok := p.peek()
		if !ok || terminators[tok] {
			break
		}
		if !isChainOp(tok) {
			break
		}
		if tok == "|" && !cur.IsPipeable() {
			return nil, syntaxErrf("syntax error near unexpected token `|'")
		}
		p.next()
		if tok == "|" {
			cur.NextKind = ast.NextPipe
		} else {
			cur.NextKind = ast.NextSemicolon
		}
		nxt, err := p.parseCmd(terminators)
		if err != nil {
			return nil, err
		}
		cur.Next = nxt
		cur = nxt
	}
	return head, nil
}

// parseCmd parses a single cmd: simple | if_else | for_loop | empty.
func (p *parser) parseCmd(terminators map[string]bool) (*ast.Command, error) {
	tok, ok := p.peek()
	if !ok || terminators[tok] || isChainOp(tok) {
		return &ast.Command{Kind: ast.KindEmpty}, nil
	}
	switch tok {
	case "if":
		return p.parseIfElse()
	case "for":
		return p.parseFor()
	default:
		return p.parseSimple()
	}
}

// parseSimple parses WORD+ redir*.
func (p *parser) parseSimple() (*ast.Command, error) {
	var argv []string
	for {
		tok, ok := p.peek()
		if !ok || isChainOp(tok) || tok == "{" || tok == "}" {
			break
		}
		if _, _, isRedir := isRedirOp(tok); isRedir {
			break
		}
		argv = append(argv, tok)
		p.next()
	}
	if len(argv) == 0 {
		return nil, syntaxErrf("syntax error: empty command")
	}

	simple := &ast.Simple{Argv: argv}
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		mode, isErr, isRedir := isRedirOp(tok)
		if !isRedir {
			break
		}
		p.next()
		fname, ok := p.next()
		if !ok {
			return nil, syntaxErrf("syntax error: missing filename after %q", tok)
		}
		if tok == "<" {
			simple.In = fname
			continue
		}
		if isErr {
			simple.Err = fname
			simple.ErrMode = mode
		} else {
			simple.Out = fname
			simple.OutMode = mode
		}
	}

	return &ast.Command{Kind: ast.KindSimple, Simple: simple}, nil
}

var braceTerm = map[string]bool{"}": true}

// parseBody parses '{' chain '}'.
func (p *parser) parseBody() (*ast.Command, error) {
	tok, ok := p.next()
	if !ok || tok != "{" {
		return nil, syntaxErrf("syntax error: expected '{'")
	}
	body, err := p.parseChain(braceTerm)
	if err != nil {
		return nil, err
	}
	tok, ok = p.next()
	if !ok || tok != "}" {
		return nil, syntaxErrf("syntax error: missing closing '}'")
	}
	return body, nil
}

// parseIfElse parses 'if' chain body ('else' body)?.
func (p *parser) parseIfElse() (*ast.Command, error) {
	p.next() // "if"

	test, err := p.parseChain(braceTerm)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	var elseBranch *ast.Command
	if tok, ok := p.peek(); ok && tok == "else" {
		p.next()
		elseBranch, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}

	return &ast.Command{Kind: ast.KindIfElse, IfElse: &ast.IfElse{
		Test: test,
		Then: then,
		Else: elseBranch,
	}}, nil
}

// parseFor parses 'for' CHAR 'in' WORD option* body.
func (p *parser) parseFor() (*ast.Command, error) {
	p.next() // "for"

	varTok, ok := p.next()
	if !ok {
		return nil, syntaxErrf("syntax error: expected loop variable after 'for'")
	}
	if len(varTok) != 1 {
		return nil, syntaxErrf("syntax error: loop variable must be a single character")
	}

	inTok, ok := p.next()
	if !ok || inTok != "in" {
		return nil, syntaxErrf("syntax error: expected 'in'")
	}

	dirTok, ok := p.next()
	if !ok {
		return nil, syntaxErrf("syntax error: expected directory after 'in'")
	}

	node := &ast.For{VarChar: varTok[0], Dir: dirTok}
	seen := make(map[string]bool)

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, syntaxErrf("syntax error: expected '{'")
		}
		if tok == "{" {
			break
		}
		switch tok {
		case "-A":
			if seen[tok] {
				return nil, forArgErrf("for: -A specified more than once")
			}
			seen[tok] = true
			node.ListAll = true
			p.next()
		case "-r":
			if seen[tok] {
				return nil, forArgErrf("for: -r specified more than once")
			}
			seen[tok] = true
			node.Recursive = true
			p.next()
		case "-e":
			if seen[tok] {
				return nil, forArgErrf("for: -e specified more than once")
			}
			seen[tok] = true
			p.next()
			ext, ok := p.next()
			if !ok {
				return nil, forArgErrf("for: missing argument to -e")
			}
			node.FilterExt = ext
		case "-t":
			if seen[tok] {
				return nil, forArgErrf("for: -t specified more than once")
			}
			seen[tok] = true
			p.next()
			tch, ok := p.next()
			if !ok || len(tch) != 1 {
				return nil, forArgErrf("for: -t requires a single character argument")
			}
			switch ast.FileType(tch[0]) {
			case ast.FileTypeRegular, ast.FileTypeDir, ast.FileTypeSymlink, ast.FileTypeFIFO:
				node.FilterType = ast.FileType(tch[0])
			default:
				return nil, forArgErrf("for: invalid -t type %q", tch)
			}
		case "-p":
			if seen[tok] {
				return nil, forArgErrf("for: -p specified more than once")
			}
			seen[tok] = true
			p.next()
			nStr, ok := p.next()
			if !ok {
				return nil, forArgErrf("for: missing argument to -p")
			}
			n, err := strconv.Atoi(nStr)
			if err != nil {
				return nil, forArgErrf("for: invalid -p argument %q", nStr)
			}
			node.Parallel = n
		default:
			return nil, forArgErrf("for: unknown option %q", tok)
		}
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	node.Body = body

	return &ast.Command{Kind: ast.KindFor, For: node}, nil
}
