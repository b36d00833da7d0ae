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

package internal

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/schemac/schemac/ast"
	"github.com/schemac/schemac/reporter"
)

// fileDescriptorProtoProvider is the subset of parser.Result that the
// pseudo-option helpers below need. It is declared locally (instead of
// imported) to avoid a dependency cycle between this package and parser.
type fileDescriptorProtoProvider interface {
	FileDescriptorProto() *descriptorpb.FileDescriptorProto
}

// MessageContext carries the bits of context an interpreter error needs in
// order to describe where, in terms of the file and option being processed,
// a problem occurred.
type MessageContext struct {
	File        fileDescriptorProtoProvider
	ElementName string
	ElementType string
	Option      *descriptorpb.UninterpretedOption
	// OptAggPath tracks the current position within a nested aggregate
	// option value, for error messages that point inside a large literal.
	OptAggPath string
}

func (m *MessageContext) String() string {
	var elem string
	if m.ElementName == "" {
		elem = m.ElementType
	} else {
		elem = fmt.Sprintf("%s %s", m.ElementType, m.ElementName)
	}
	if m.Option != nil && len(m.Option.Name) > 0 {
		var buf bytes.Buffer
		buf.WriteString(elem)
		buf.WriteString(": option ")
		for i, part := range m.Option.Name {
			if i > 0 {
				buf.WriteByte('.')
			}
			if part.GetIsExtension() {
				buf.WriteByte('(')
				buf.WriteString(part.GetNamePart())
				buf.WriteByte(')')
			} else {
				buf.WriteString(part.GetNamePart())
			}
		}
		if m.OptAggPath != "" {
			buf.WriteByte('.')
			buf.WriteString(m.OptAggPath)
		}
		return buf.String()
	}
	return elem
}

// JSONName computes the default JSON name for a field given its declared
// (snake_case) name: each underscore is removed and the letter that
// followed it is upper-cased. This mirrors the algorithm used by the
// reference compiler (and is otherwise unspecified by the language).
func JSONName(name string) string {
	var buf bytes.Buffer
	nextUpper := false
	for _, r := range name {
		if r == '_' {
			nextUpper = true
			continue
		}
		if nextUpper {
			buf.WriteRune(toUpper(r))
			nextUpper = false
		} else {
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// InitCap upper-cases just the first rune of s, leaving the rest untouched.
func InitCap(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = toUpper(r[0])
	return string(r)
}

// FieldTypes is the set of proto field-type keywords that denote a scalar
// (as opposed to a message or enum type name).
var FieldTypes = map[string]descriptorpb.FieldDescriptorProto_Type{
	"double":   descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
	"float":    descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
	"int32":    descriptorpb.FieldDescriptorProto_TYPE_INT32,
	"int64":    descriptorpb.FieldDescriptorProto_TYPE_INT64,
	"uint32":   descriptorpb.FieldDescriptorProto_TYPE_UINT32,
	"uint64":   descriptorpb.FieldDescriptorProto_TYPE_UINT64,
	"sint32":   descriptorpb.FieldDescriptorProto_TYPE_SINT32,
	"sint64":   descriptorpb.FieldDescriptorProto_TYPE_SINT64,
	"fixed32":  descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
	"fixed64":  descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
	"sfixed32": descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
	"sfixed64": descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
	"bool":     descriptorpb.FieldDescriptorProto_TYPE_BOOL,
	"string":   descriptorpb.FieldDescriptorProto_TYPE_STRING,
	"bytes":    descriptorpb.FieldDescriptorProto_TYPE_BYTES,
}

// ClonePath returns a copy of path, so callers can keep appending to the
// original slice without mutating a value another caller has stashed away.
func ClonePath(path []int32) []int32 {
	cp := make([]int32, len(path))
	copy(cp, path)
	return cp
}

// IsZeroSourceLocation reports whether loc is the zero value, i.e. it was
// not actually found by a SourceLocations lookup.
func IsZeroSourceLocation(loc protoreflect.SourceLocation) bool {
	return len(loc.Path) == 0 && loc.StartLine == 0 && loc.StartColumn == 0 &&
		loc.EndLine == 0 && loc.EndColumn == 0
}

// ComputeSourcePath reconstructs the SourceCodeInfo path that locates d
// within its file, by walking up the descriptor's Parent() chain and using
// each level's declared field number within the schema of the enclosing
// descriptor.
func ComputeSourcePath(d protoreflect.Descriptor) ([]int32, bool) {
	var rev []int32
	cur := d
	for {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		tag, ok := containingFieldTag(cur, parent)
		if !ok {
			return nil, false
		}
		rev = append(rev, int32(cur.Index()), tag)
		cur = parent
	}
	path := make([]int32, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path, true
}

func containingFieldTag(d, parent protoreflect.Descriptor) (int32, bool) {
	_, parentIsFile := parent.(protoreflect.FileDescriptor)
	switch d.(type) {
	case protoreflect.MessageDescriptor:
		if parentIsFile {
			return FileMessagesTag, true
		}
		return MessageNestedMessagesTag, true
	case protoreflect.EnumDescriptor:
		if parentIsFile {
			return FileEnumsTag, true
		}
		return MessageEnumsTag, true
	case protoreflect.EnumValueDescriptor:
		return EnumValuesTag, true
	case protoreflect.ServiceDescriptor:
		return FileServicesTag, true
	case protoreflect.MethodDescriptor:
		return ServiceMethodsTag, true
	case protoreflect.OneofDescriptor:
		return MessageOneofsTag, true
	case protoreflect.FieldDescriptor:
		fd := d.(protoreflect.FieldDescriptor)
		if fd.IsExtension() {
			if parentIsFile {
				return FileExtensionsTag, true
			}
			return MessageExtensionsTag, true
		}
		return MessageFieldsTag, true
	default:
		return 0, false
	}
}

// WriteEscapedBytes writes b to buf using the C-style escaping conventions
// of protobuf text format: printable ASCII is copied verbatim (with '"' and
// '\\' escaped), newline, carriage return and tab are written as \n, \r and
// \t, and every other byte is written as a \xHH hex escape.
func WriteEscapedBytes(buf *bytes.Buffer, b []byte) {
	for _, c := range b {
		switch c {
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			if c >= 0x20 && c < 0x7f {
				buf.WriteByte(c)
			} else {
				fmt.Fprintf(buf, `\x%02x`, c)
			}
		}
	}
}

// FindOption looks for a non-repeated, non-extension option named name
// among opts. It is an error for the option to appear more than once; such
// a duplicate is reported through handler using scope as context. Returns
// -1 (with a nil error) if the option is absent.
func FindOption(file fileDescriptorProtoProvider, handler *reporter.Handler, scope string, opts []*descriptorpb.UninterpretedOption, name string) (int, error) {
	found := -1
	for i, opt := range opts {
		if len(opt.Name) != 1 || opt.Name[0].GetIsExtension() || opt.Name[0].GetNamePart() != name {
			continue
		}
		if found >= 0 {
			return -1, handler.HandleErrorf(ast.UnknownSpan(""), "%s: option %s cannot be defined more than once", scope, name)
		}
		found = i
	}
	return found, nil
}

// RemoveOption returns opts with the element at index removed, preserving
// the relative order of the remaining elements.
func RemoveOption(opts []*descriptorpb.UninterpretedOption, index int) []*descriptorpb.UninterpretedOption {
	return append(opts[:index:index], opts[index+1:]...)
}
