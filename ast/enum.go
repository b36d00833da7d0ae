// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

// EnumDeclNode is implemented by every AST node that can stand in for an
// enum declaration: a real *EnumNode, or a NoSourceNode when a descriptor
// was synthesized rather than parsed from source (see no_source.go).
type EnumDeclNode interface {
	Node
	GetName() Node
}

var (
	_ EnumDeclNode = (*EnumNode)(nil)
	_ EnumDeclNode = NoSourceNode{}
)

// EnumNode is the descriptor IR node for an enum declaration, e.g.:
//
//	enum Foo { BAR = 0; BAZ = 1 }
//
// Per spec.md §3's scoping rule, an enum's values are *not* nested under
// this node's own name scope the way a message's fields are under a
// message; EnumValueNode is registered by the name-map builder in the
// enum's enclosing scope instead. This node only tracks syntax, not scope.
type EnumNode struct {
	Keyword    *KeywordNode
	Name       *IdentNode
	OpenBrace  *RuneNode
	Decls      []EnumElement
	CloseBrace *RuneNode
	Semicolon  *RuneNode
}

func (e *EnumNode) Start() Token { return e.Keyword.Start() }
func (e *EnumNode) End() Token   { return e.Semicolon.Token() }

func (*EnumNode) fileElement() {}
func (*EnumNode) msgElement()  {}

func (e *EnumNode) GetName() Node {
	return e.Name
}

func (e *EnumNode) GetElements() []EnumElement {
	return e.Decls
}

// EnumElement is implemented by every AST node legal inside an enum
// body: option statements, enum value declarations, reserved statements,
// and empty (bare ';') declarations.
type EnumElement interface {
	Node
	enumElement()
}

var (
	_ EnumElement = (*OptionNode)(nil)
	_ EnumElement = (*EnumValueNode)(nil)
	_ EnumElement = (*ReservedNode)(nil)
	_ EnumElement = (*EmptyDeclNode)(nil)
)

// EnumValueDeclNode is implemented by every AST node that can stand in
// for a single enum value: a real *EnumValueNode, or a NoSourceNode for
// a synthesized value with no corresponding source text.
type EnumValueDeclNode interface {
	Node
	GetName() Node
	GetNumber() Node
}

var (
	_ EnumValueDeclNode = (*EnumValueNode)(nil)
	_ EnumValueDeclNode = NoSourceNode{}
)

// EnumValueNode is one `NAME = number [options];` entry inside an enum
// body, e.g.:
//
//	UNSET = 0 [deprecated = true];
type EnumValueNode struct {
	Name      *IdentNode
	Equals    *RuneNode
	Number    IntValueNode
	Options   *CompactOptionsNode
	Semicolon *RuneNode
}

func (*EnumValueNode) enumElement() {}

func (e *EnumValueNode) Start() Token { return e.Name.Start() }
func (e *EnumValueNode) End() Token   { return e.Semicolon.Token() }

func (e *EnumValueNode) GetName() Node {
	return e.Name
}

func (e *EnumValueNode) GetNumber() Node {
	if IsNil(e.Number) {
		return nil
	}
	return e.Number
}
