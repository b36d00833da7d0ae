// Package protoutil provides utility functions for interacting with
// descriptors. It is similar to protodesc, except that it supports
// descriptors that aren't backed by a normal descriptor proto, instead
// working with any implementation of protoreflect.Descriptor.
package protoutil

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/schemac/schemac/internal"
)

// ProtoFromDescriptor extracts a descriptor proto from the given descriptor.
// If the given value has an AsProto method, that method is used to extract
// the return value. No descriptor type in this module defines AsProto, so
// descriptors from the linker package take the fallback path below.
//
// If d has no AsProto method, then this
// falls back to computing the proto form by walking up to the enclosing
// file and locating the corresponding element of the generated
// FileDescriptorProto by index.
func ProtoFromDescriptor(d protoreflect.Descriptor) proto.Message {
	type hasAsProto interface {
		AsProto() proto.Message
	}
	if dp, ok := d.(hasAsProto); ok {
		return dp.AsProto()
	}
	return fromFileDescriptorProto(d)
}

// ProtoFromFileDescriptor extracts a file descriptor proto from the given
// file descriptor. If the given value has an AsFileDescriptorProto method,
// it is used. Otherwise, this falls back to protodesc.ToFileDescriptorProto.
func ProtoFromFileDescriptor(fd protoreflect.FileDescriptor) *descriptorpb.FileDescriptorProto {
	type hasAsFileDescriptorProto interface {
		AsFileDescriptorProto() *descriptorpb.FileDescriptorProto
	}
	if dp, ok := fd.(hasAsFileDescriptorProto); ok {
		return dp.AsFileDescriptorProto()
	}
	return protodesc.ToFileDescriptorProto(fd)
}

// fromFileDescriptorProto reconstructs the descriptor proto for d by
// converting its enclosing file to a FileDescriptorProto and walking the
// path computed by internal.ComputeSourcePath, which yields exactly the
// sequence of (field-number, index) steps needed to reach d's element from
// the root of the file.
func fromFileDescriptorProto(d protoreflect.Descriptor) proto.Message {
	file := d.ParentFile()
	if file == nil {
		return nil
	}
	fd := ProtoFromFileDescriptor(file)
	if _, ok := d.(protoreflect.FileDescriptor); ok {
		return fd
	}
	path, ok := internal.ComputeSourcePath(d)
	if !ok {
		return nil
	}
	var cur proto.Message = fd
	for i := 0; i+1 < len(path); i += 2 {
		tag, idx := path[i], path[i+1]
		next, ok := step(cur, tag, idx)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// step descends one level of a descriptor proto tree, returning the element
// at index idx of the repeated field identified by tag.
func step(cur proto.Message, tag, idx int32) (proto.Message, bool) {
	switch m := cur.(type) {
	case *descriptorpb.FileDescriptorProto:
		switch tag {
		case internal.FileMessagesTag:
			return at(m.MessageType, idx)
		case internal.FileEnumsTag:
			return at(m.EnumType, idx)
		case internal.FileServicesTag:
			return at(m.Service, idx)
		case internal.FileExtensionsTag:
			return at(m.Extension, idx)
		}
	case *descriptorpb.DescriptorProto:
		switch tag {
		case internal.MessageFieldsTag:
			return at(m.Field, idx)
		case internal.MessageNestedMessagesTag:
			return at(m.NestedType, idx)
		case internal.MessageEnumsTag:
			return at(m.EnumType, idx)
		case internal.MessageExtensionsTag:
			return at(m.Extension, idx)
		case internal.MessageOneofsTag:
			return at(m.OneofDecl, idx)
		case internal.MessageExtensionRangesTag:
			return at(m.ExtensionRange, idx)
		}
	case *descriptorpb.EnumDescriptorProto:
		if tag == internal.EnumValuesTag {
			return at(m.Value, idx)
		}
	case *descriptorpb.ServiceDescriptorProto:
		if tag == internal.ServiceMethodsTag {
			return at(m.Method, idx)
		}
	}
	return nil, false
}

func at[T proto.Message](s []T, idx int32) (proto.Message, bool) {
	if idx < 0 || int(idx) >= len(s) {
		return nil, false
	}
	return s[idx], true
}
