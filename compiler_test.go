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

package schemac

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestParseFilesMessageComments(t *testing.T) {
	t.Parallel()
	accessor := SourceAccessorFromMap(map[string]string{
		"test.proto": `
syntax = "proto3";

// Comment for TestMessage
message TestMessage {
  string s = 1;
}
`,
	})
	comp := Compiler{
		Resolver:       &SourceResolver{Accessor: accessor},
		SourceInfoMode: SourceInfoStandard,
	}
	ctx := context.Background()
	files, err := comp.Compile(ctx, "test.proto")
	require.NoError(t, err)

	comments := ""
	for _, fd := range files.Files {
		msg := fd.Messages().ByName("TestMessage")
		if msg != nil {
			si := fd.SourceLocations().ByDescriptor(msg)
			if si.Path != nil {
				comments = si.LeadingComments
			}
			break
		}
	}
	assert.Equal(t, " Comment for TestMessage\n", comments)
}

// TestDiamondDependencyReuse establishes that a file imported by two
// different roots is parsed and linked exactly once: both importers must
// observe the identical resolved type, and the compiled set must contain
// each file a single time.
func TestDiamondDependencyReuse(t *testing.T) {
	t.Parallel()
	contents := map[string]string{
		"a/b/b1.proto": `
syntax = "proto3";
package a.b;
message BeeOne {}
`,
		"a/b/b2.proto": `
syntax = "proto3";
package a.b;
import "a/b/b1.proto";
message BeeTwo {
  BeeOne bee_one = 1;
}
`,
		"c/c.proto": `
syntax = "proto3";
package c;
import "a/b/b1.proto";
import "a/b/b2.proto";
message See {
  a.b.BeeOne bee_one = 1;
  a.b.BeeTwo bee_two = 2;
}
`,
	}
	comp := Compiler{Resolver: mkResolver(contents)}
	ctx := context.Background()
	res, err := comp.Compile(ctx, "a/b/b1.proto", "a/b/b2.proto", "c/c.proto")
	require.NoError(t, err)
	assert.Equal(t, 3, len(res.Files))

	b1FromB2 := res.Files.FindFileByPath("a/b/b2.proto").FindImportByPath("a/b/b1.proto")
	b1FromC := res.Files.FindFileByPath("c/c.proto").FindImportByPath("a/b/b1.proto")
	assert.Same(t, b1FromB2, b1FromC)
}

func TestParseFilesWithDependencies(t *testing.T) {
	t.Parallel()
	contents := map[string]string{
		"test.proto": `
syntax = "proto3";
import "dep.proto";

message TestImportedType {
  testprotos.Dep imported_field = 1;
}
`,
	}
	depProto := &descriptorpb.FileDescriptorProto{
		Name:    proto33("dep.proto"),
		Package: proto33("testprotos"),
		Syntax:  proto33("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto33("Dep"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:   proto33("x"),
						Number: proto32(1),
						Label:  labelOptional(),
						Type:   typeInt32(),
					},
				},
			},
		},
	}
	baseResolver := ResolverFunc(func(f UnresolvedPath, _ ImportContext) (SearchResult, error) {
		s, ok := contents[string(f)]
		if !ok {
			return SearchResult{}, os.ErrNotExist
		}
		return SearchResult{ResolvedPath: ResolvedPath(f), Source: strings.NewReader(s)}, nil
	})
	ctx := context.Background()

	t.Run("DependencyIncluded", func(t *testing.T) {
		t.Parallel()
		compiler := Compiler{
			Resolver: ResolverFunc(func(f UnresolvedPath, whence ImportContext) (SearchResult, error) {
				if f == "dep.proto" {
					return SearchResult{ResolvedPath: ResolvedPath(f), Proto: depProto}, nil
				}
				return baseResolver.FindFileByPath(f, whence)
			}),
		}
		_, err := compiler.Compile(ctx, "test.proto")
		assert.NoError(t, err)
	})

	t.Run("DependencyExcluded", func(t *testing.T) {
		t.Parallel()
		compiler := Compiler{Resolver: baseResolver}
		_, err := compiler.Compile(ctx, "test.proto")
		assert.Error(t, err)
	})

	t.Run("NoDependencies", func(t *testing.T) {
		t.Parallel()
		compiler := Compiler{
			Resolver: ResolverFunc(func(f UnresolvedPath, _ ImportContext) (SearchResult, error) {
				switch f {
				case "test.proto":
					return SearchResult{ResolvedPath: ResolvedPath(f), Source: strings.NewReader(`syntax = "proto3";`)}, nil
				case descriptorProtoPath:
					return SearchResult{}, os.ErrNotExist
				default:
					t.Errorf("resolver was called for unexpected filename %q", f)
					return SearchResult{}, os.ErrNotExist
				}
			}),
		}
		_, err := compiler.Compile(ctx, "test.proto")
		assert.NoError(t, err)
	})
}

func TestParseCommentsBeforeDot(t *testing.T) {
	t.Parallel()
	accessor := SourceAccessorFromMap(map[string]string{
		"test.proto": `
syntax = "proto3";
message Foo {
  // leading comments
  .Foo foo = 1;
}
`,
	})

	compiler := Compiler{
		Resolver:       &SourceResolver{Accessor: accessor},
		SourceInfoMode: SourceInfoStandard,
	}
	ctx := context.Background()
	fds, err := compiler.Compile(ctx, "test.proto")
	require.NoError(t, err)

	field := fds.Files[0].Messages().Get(0).Fields().Get(0)
	comment := fds.Files[0].SourceLocations().ByDescriptor(field).LeadingComments
	assert.Equal(t, " leading comments\n", comment)
}

func TestParseCustomOptions(t *testing.T) {
	t.Parallel()
	accessor := SourceAccessorFromMap(map[string]string{
		"test.proto": `
syntax = "proto3";
import "google/protobuf/descriptor.proto";
extend google.protobuf.MessageOptions {
    string foo = 30303;
    int64 bar = 30304;
}
message Foo {
  option (.foo) = "foo";
  option (bar) = 123;
}
`,
	})

	compiler := Compiler{
		Resolver:       WithStandardImports(&SourceResolver{Accessor: accessor}),
		SourceInfoMode: SourceInfoStandard,
	}
	ctx := context.Background()
	fds, err := compiler.Compile(ctx, "test.proto")
	require.NoError(t, err)

	ext := fds.Files[0].Extensions().ByName("foo")
	md := fds.Files[0].Messages().Get(0)
	fooVal := md.Options().ProtoReflect().Get(ext)
	assert.Equal(t, "foo", fooVal.String())

	ext = fds.Files[0].Extensions().ByName("bar")
	barVal := md.Options().ProtoReflect().Get(ext)
	assert.Equal(t, int64(123), barVal.Int())
}

// TestConcurrentCompilesShareResolver exercises the one concurrency surface
// the library still allows after the sequential-driver redesign: a single
// Resolver value, shared by two unrelated Compiler values, invoked from
// concurrent Compile calls. Each Compile call itself stays single-threaded.
func TestConcurrentCompilesShareResolver(t *testing.T) {
	t.Parallel()
	resolver := WithStandardImports(mkResolver(baseContents))

	grp, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 4; i++ {
		grp.Go(func() error {
			comp := Compiler{Resolver: resolver, SourceInfoMode: SourceInfoStandard}
			_, err := comp.Compile(ctx, "a/b/b1.proto", "a/b/b2.proto", "c/c.proto")
			return err
		})
	}
	require.NoError(t, grp.Wait())
}

func TestDescriptorProtoPath(t *testing.T) {
	t.Parallel()
	path := (*descriptorpb.FileDescriptorProto)(nil).ProtoReflect().Descriptor().ParentFile().Path()
	require.Equal(t, descriptorProtoPath, path)
}

func TestCircularImport(t *testing.T) {
	t.Parallel()
	contents := map[string]string{
		"a.proto": `syntax = "proto3"; import "b.proto";`,
		"b.proto": `syntax = "proto3"; import "a.proto";`,
	}
	comp := Compiler{Resolver: mkResolver(contents)}
	_, err := comp.Compile(context.Background(), "a.proto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle found in imports")
}

var baseContents = map[string]string{
	"a/b/b1.proto": `
syntax = "proto3";

package a.b;

message BeeOne {}
`,
	"a/b/b2.proto": `
syntax = "proto3";

package a.b;

import "a/b/b1.proto";

message BeeTwo {
  BeeOne bee_one = 1;
}
`,
	"c/c.proto": `
syntax = "proto3";

package c;

import "a/b/b1.proto";
import "a/b/b2.proto";

message See {
  a.b.BeeOne bee_one = 1;
  a.b.BeeTwo bee_two = 2;
}
`,
}

func mkResolver(contents map[string]string) Resolver {
	return ResolverFunc(func(name UnresolvedPath, _ ImportContext) (SearchResult, error) {
		if s, ok := contents[string(name)]; ok {
			return SearchResult{ResolvedPath: ResolvedPath(name), Source: strings.NewReader(s)}, nil
		}
		return SearchResult{}, os.ErrNotExist
	})
}

func proto33(s string) *string { return &s }
func proto32(i int32) *int32   { return &i }

func labelOptional() *descriptorpb.FieldDescriptorProto_Label {
	l := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	return &l
}

func typeInt32() *descriptorpb.FieldDescriptorProto_Type {
	t := descriptorpb.FieldDescriptorProto_TYPE_INT32
	return &t
}
