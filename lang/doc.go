// Package lang implements the cfgx configuration language and its
// translation to XML.
//
// # Pipeline
//
// Translation runs in four strictly sequential stages:
//
//   - [Tokenize] normalizes the source text and splits it into [Token]s.
//   - [Parse] walks the tokens with a recursive descent parser and builds a
//     [Model], resolving variable references as it goes.
//   - Inline postfix expressions are computed by a stack machine driven by
//     the parser's token cursor (see [Evaluate] for the standalone form).
//   - [Generate] renders the model as an XML document.
//
// [Translate] and [TranslateReader] run the whole pipeline. Every stage
// aborts on its first error; there is no partial output.
//
// # Grammar
//
// Informal EBNF:
//
//	Program      → Statement* | Dictionary
//	Statement    → 'var' Identifier '=' Value ';'?
//	Value        → Number | String | Identifier | Dictionary | PostfixExpr
//	Dictionary   → '{' (Identifier ':' Value (',' Identifier ':' Value)*)? '}'
//	PostfixExpr  → '@[' (Number | Identifier | Operator | 'mod')* ']'
//	Operator     → '+' | '-' | '*' | '/'
//
// Comments are delimited by #= and =# and may span lines.
//
// # Example
//
//	#= server settings =#
//	var port = 8080;
//	var name = "edge";
//	var server = {host: "localhost", port: port, backlog: @[port 16 /]};
//
// translates to
//
//	<config port="8080" name="edge"><dictionary name="server"><entry name="host" value="localhost"/><entry name="port" value="8080"/><entry name="backlog" value="505.0"/></dictionary></config>
//
// # Scoping
//
// Variables are resolved strictly forward: an identifier refers to the value
// most recently bound by an earlier statement. The referenced value is
// copied, so later rebinding never changes an earlier use. Rebinding a name,
// like repeating a dictionary key, replaces the earlier value (last write
// wins).
//
// # Postfix expressions
//
// Operands are numbers or variables bound to numbers. Each operator pops two
// operands and pushes its result immediately. Integer operands stay integral
// except under '/', which always yields a float; any float operand makes the
// result a float. 'mod' follows the sign of the divisor.
package lang
