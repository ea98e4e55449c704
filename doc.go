/* Package main implements tinyvm, a tiny embeddable expression language.

A single fixed-size byte arena holds two things growing toward each other:
a stream of compiled bytecode growing up from the bottom, and a dictionary
of named bindings growing down from the top. The dictionary holds
procedures (user-defined, compiled from source), two kinds of storage
cells (globals and locals), and host-bound native functions registered by
the embedder. Primitives (opcodes built into the VM) are not stored in the
arena: they live in a separate read-only table that is searched when a
name is not found in the dictionary.

The language itself is small: `let name = expr` binds a global, `fun name
arg... = expr` defines a procedure, `forget name` removes the most recently
defined binding (and everything defined after it), and a bare expression
compiles and runs immediately. Expressions are C-like: infix arithmetic and
bitwise operators at the usual precedences, `if cond then expr else expr`,
assignment via `name : expr`, and procedure calls written `name arg...`.

Internally the compiler emits bytecode directly into the arena as it
parses -- there is no separate AST. A handful of peephole rewrites keep the
output compact: small integer literals narrow to one or two-byte PUSH
forms, a literal immediately preceded by unary minus is folded in place,
and an assignment target that was just compiled as a fetch is rewritten in
place into a store.

The VM is a simple stack machine. A procedure call that is the last thing
a procedure does is rewritten, at the moment it is about to execute, from
CALL into TCALL -- a tail call that reuses the current frame instead of
growing the return stack, letting recursive procedures loop indefinitely
without overflowing it.

This package began life as a small interpreter written in C for an
embedded device; see DESIGN.md for where each piece of this port came
from.
*/
package main
