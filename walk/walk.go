// Package walk provides helper functions for walking all descriptors in a
// file, including all messages and nested messages, to easily process
// whole files of descriptors.
package walk

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// DescriptorHandler is a function that processes a descriptor. This is used
// to visit all descriptors in a file, in order to process them all with the
// same logic.
type DescriptorHandler func(protoreflect.Descriptor) error

// Descriptors walks all descriptors in the given file, calling handler for
// every element encountered: the file itself is not visited, but every
// top-level and nested message, field, oneof, enum, enum value, extension,
// service, and method is. Traversal stops as soon as handler returns a
// non-nil error, which is then returned to the caller.
func Descriptors(file protoreflect.FileDescriptor, handler DescriptorHandler) error {
	if err := walkSlice(file.Messages(), func(d protoreflect.MessageDescriptor) error {
		return messageDescriptor(d, handler)
	}); err != nil {
		return err
	}
	if err := walkSlice(file.Enums(), func(d protoreflect.EnumDescriptor) error {
		return enumDescriptor(d, handler)
	}); err != nil {
		return err
	}
	if err := walkSlice(file.Extensions(), func(d protoreflect.ExtensionDescriptor) error {
		return handler(d)
	}); err != nil {
		return err
	}
	return walkSlice(file.Services(), func(d protoreflect.ServiceDescriptor) error {
		return serviceDescriptor(d, handler)
	})
}

func messageDescriptor(md protoreflect.MessageDescriptor, handler DescriptorHandler) error {
	if err := handler(md); err != nil {
		return err
	}
	if err := walkSlice(md.Fields(), func(d protoreflect.FieldDescriptor) error {
		return handler(d)
	}); err != nil {
		return err
	}
	if err := walkSlice(md.Oneofs(), func(d protoreflect.OneofDescriptor) error {
		return handler(d)
	}); err != nil {
		return err
	}
	if err := walkSlice(md.Extensions(), func(d protoreflect.ExtensionDescriptor) error {
		return handler(d)
	}); err != nil {
		return err
	}
	if err := walkSlice(md.Enums(), func(d protoreflect.EnumDescriptor) error {
		return enumDescriptor(d, handler)
	}); err != nil {
		return err
	}
	return walkSlice(md.Messages(), func(d protoreflect.MessageDescriptor) error {
		return messageDescriptor(d, handler)
	})
}

func enumDescriptor(ed protoreflect.EnumDescriptor, handler DescriptorHandler) error {
	if err := handler(ed); err != nil {
		return err
	}
	return walkSlice(ed.Values(), func(d protoreflect.EnumValueDescriptor) error {
		return handler(d)
	})
}

func serviceDescriptor(sd protoreflect.ServiceDescriptor, handler DescriptorHandler) error {
	if err := handler(sd); err != nil {
		return err
	}
	return walkSlice(sd.Methods(), func(d protoreflect.MethodDescriptor) error {
		return handler(d)
	})
}

// descriptorList is the subset of the various protoreflect List types (for
// MessageDescriptor, FieldDescriptor, etc) that walkSlice needs.
type descriptorList[T any] interface {
	Len() int
	Get(int) T
}

func walkSlice[T any](list descriptorList[T], fn func(T) error) error {
	for i := 0; i < list.Len(); i++ {
		if err := fn(list.Get(i)); err != nil {
			return err
		}
	}
	return nil
}
