// Package linker's placeholder.go mints stand-in descriptors for names that
// resolve to a definition the linker has not (and, for an unresolvable
// import, will never) load. The option interpreter and name resolver both
// need *something* implementing protoreflect.FileDescriptor/MessageDescriptor
// to hand back in that situation rather than a nil that every caller would
// otherwise have to special-case.
package linker

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// placeholderFile wraps a protoreflect.FileDescriptor built from a
// minimal, unresolvable FileDescriptorProto. All of the linker-specific
// File methods report "nothing here" since a placeholder, by definition,
// was never actually linked against this compilation's file graph.
type placeholderFile struct {
	protoreflect.FileDescriptor
}

// Dependencies implements File.
func (placeholderFile) Dependencies() Files {
	return nil
}

// FindDescriptorByName implements File.
func (placeholderFile) FindDescriptorByName(name protoreflect.FullName) protoreflect.Descriptor {
	return nil
}

// FindExtensionByNumber implements File.
func (placeholderFile) FindExtensionByNumber(message protoreflect.FullName, tag protowire.Number) protoreflect.ExtensionTypeDescriptor {
	return nil
}

// FindImportByPath implements File.
func (placeholderFile) FindImportByPath(path string) File {
	return nil
}

// buildUnresolvable constructs a protoreflect.FileDescriptor from descProto,
// tolerating type-name references that can't be looked up. Both placeholder
// constructors below need exactly this: a throwaway descriptor built from a
// hand-assembled proto, with resolution relaxed because the whole point of a
// placeholder is to stand in for something that isn't actually resolvable.
func buildUnresolvable(descProto *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	f, err := protodesc.FileOptions{
		AllowUnresolvable: true,
	}.New(descProto, nil)
	if err != nil {
		panic(err)
	}
	return f
}

// NewPlaceholderFile returns a File standing in for an import path that
// could not be loaded. Its FileDescriptor reports the given path but has no
// declarations of its own.
func NewPlaceholderFile(path string) File {
	descProto := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("placeholder"),
		Dependency: []string{path},
	}
	return placeholderFile{
		FileDescriptor: buildUnresolvable(descProto).Imports().Get(0),
	}
}

// NewPlaceholderMessage returns a MessageDescriptor standing in for a
// message type named name that could not be resolved to a real
// declaration. It builds a one-field message whose field type is name and
// returns that field's unresolved message type, so the result is a
// placeholder whose FullName is name.
func NewPlaceholderMessage(name protoreflect.FullName) protoreflect.MessageDescriptor {
	descProto := &descriptorpb.FileDescriptorProto{
		Name: proto.String("placeholder"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Placeholder"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto.String("placeholder"),
						Number:   proto.Int32(1),
						TypeName: proto.String("." + string(name)),
					},
				},
			},
		},
	}
	return buildUnresolvable(descProto).Messages().Get(0).Fields().Get(0).Message()
}
