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

// Package internal holds types and helpers shared by the parser, linker,
// options, and sourceinfo packages that would otherwise create import
// cycles. Most of what lives here is just the field-number layout of the
// descriptor.proto messages, expressed as constants so the rest of the
// compiler never hard-codes a magic number when building a SourceCodeInfo
// path.
package internal

import "math"

// Field tags for FileDescriptorProto.
const (
	FilePackageTag          = 2
	FileDependencyTag       = 3
	FileMessagesTag         = 4
	FileEnumsTag            = 5
	FileServicesTag         = 6
	FileExtensionsTag       = 7
	FileOptionsTag          = 8
	FileSourceCodeInfoTag   = 9
	FilePublicDependencyTag = 10
	FileWeakDependencyTag   = 11
	FileSyntaxTag           = 12
	FileEditionTag          = 13
)

// Field tags for DescriptorProto (message declarations).
const (
	MessageNameTag             = 1
	MessageFieldsTag           = 2
	MessageNestedMessagesTag   = 3
	MessageEnumsTag            = 4
	MessageExtensionRangesTag  = 5
	MessageExtensionsTag       = 6
	MessageOptionsTag          = 7
	MessageOneofsTag           = 8
	MessageReservedRangesTag   = 9
	MessageReservedNamesTag    = 10
)

// Field tags for FieldDescriptorProto.
const (
	FieldNameTag       = 1
	FieldExtendeeTag   = 2
	FieldNumberTag     = 3
	FieldLabelTag      = 4
	FieldTypeTag       = 5
	FieldTypeNameTag   = 6
	FieldDefaultTag    = 7
	FieldOptionsTag    = 8
	FieldJSONNameTag   = 10
	Proto3OptionalTag  = 17
)

// Field tags for EnumDescriptorProto.
const (
	EnumNameTag           = 1
	EnumValuesTag         = 2
	EnumOptionsTag        = 3
	EnumReservedRangesTag = 4
	EnumReservedNamesTag  = 5
)

// Field tags for EnumValueDescriptorProto.
const (
	EnumValNameTag    = 1
	EnumValNumberTag  = 2
	EnumValOptionsTag = 3
)

// Field tags for ServiceDescriptorProto.
const (
	ServiceNameTag    = 1
	ServiceMethodsTag = 2
	ServiceOptionsTag = 3
)

// Field tags for MethodDescriptorProto.
const (
	MethodNameTag         = 1
	MethodInputTag        = 2
	MethodOutputTag       = 3
	MethodOptionsTag      = 4
	MethodInputStreamTag  = 5
	MethodOutputStreamTag = 6
)

// Field tags for OneofDescriptorProto.
const (
	OneofNameTag    = 1
	OneofOptionsTag = 2
)

// Field tags for DescriptorProto.ExtensionRange.
const (
	ExtensionRangeStartTag   = 1
	ExtensionRangeEndTag     = 2
	ExtensionRangeOptionsTag = 3
)

// Field tags shared by DescriptorProto.ReservedRange and
// EnumDescriptorProto.EnumReservedRange (both have the same shape).
const (
	ReservedRangeStartTag = 1
	ReservedRangeEndTag   = 2
)

// UninterpretedOptionsTag is the field number reserved in every *Options
// message for the repeated uninterpreted_option field.
const UninterpretedOptionsTag = 999

// Field tags for UninterpretedOption and UninterpretedOption.NamePart.
const (
	UninterpretedNameTag        = 2
	UninterpretedIdentTag       = 3
	UninterpretedPosIntTag      = 4
	UninterpretedNegIntTag      = 5
	UninterpretedDoubleTag      = 6
	UninterpretedStringTag      = 7
	UninterpretedAggregateTag   = 8
	UninterpretedNameNameTag    = 1
)

// Field tags for the google.protobuf.Any message shape.
const (
	AnyTypeURLTag = 1
	AnyValueTag   = 2
)

// SpecialReservedStart and SpecialReservedEnd bound the range of field
// numbers set aside for protobuf implementation use and forbidden in
// user-declared fields and extensions.
const (
	SpecialReservedStart = 19000
	SpecialReservedEnd   = 19999
)

// MaxNormalTag is the maximum allowed field number for an ordinary field.
// MaxTag is the (higher) maximum allowed when a message uses the legacy
// "message set" wire format, whose extension numbers are encoded as a
// regular int32 instead of being restricted to the usual 30-bit range.
const (
	MaxNormalTag = (1 << 30) - 1
	MaxTag       = math.MaxInt32
)

// AllowEditions controls whether the "edition" syntax declaration is
// accepted. When it is false, the parser reports an error for a file that
// declares an edition. When it is true, such a file is given the syntax
// "editions" and its declared Edition value in the descriptor proto.
var AllowEditions = true
