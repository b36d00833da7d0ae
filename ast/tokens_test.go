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

package ast_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemac/schemac/ast"
	"github.com/schemac/schemac/parser"
	"github.com/schemac/schemac/reporter"
)

// sampleProtoSources covers a representative mix of lexical elements
// (comments, string escapes, options, extensions, services, editions) so
// the token-sequence walk below exercises most terminal-node kinds.
var sampleProtoSources = map[string]string{
	"basic.proto": `
syntax = "proto3";
package foo.bar;
message Msg {
  string name = 1;
  repeated int32 numbers = 2;
}
`,
	"options_and_extensions.proto": `
syntax = "proto2";
import "google/protobuf/descriptor.proto";
extend google.protobuf.FileOptions {
  optional string file_tag = 50000;
}
option (file_tag) = "v1\n";
message Extendable {
  extensions 100 to 200;
  optional string name = 1 [default = "foo\tbar", deprecated = true];
}
`,
	"service.proto": `
syntax = "proto3";
// leading comment on the service
service Greeter {
  // leading comment on the method
  rpc SayHello (HelloRequest) returns (HelloReply);
}
message HelloRequest { string name = 1; }
message HelloReply { string message = 1; }
`,
	"editions.proto": `
edition = "2023";
message Edish {
  string name = 1;
}
`,
}

func TestTokens(t *testing.T) {
	t.Parallel()
	for name, src := range sampleProtoSources {
		name, src := name, src
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			testTokensSequence(t, name, []byte(src))
		})
	}
	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		testTokensSequence(t, "empty", []byte(`
		// this file has no lexical elements, just this one comment
		`))
	})
}

func testTokensSequence(t *testing.T, path string, data []byte) {
	filename := filepath.Base(path)
	root, err := parser.Parse(filename, bytes.NewReader(data), reporter.NewHandler(nil), 0)
	require.NoError(t, err)
	tokens := leavesAsSlice(root)
	require.NoError(t, err)
	// Make sure sequence matches the actual leaves in the tree
	seq := root.Tokens()
	// Both forwards
	token, ok := seq.First()
	require.True(t, ok)
	for _, astToken := range tokens {
		if astToken != token {
			t.Logf("expected %v (%q), got %v (%q)", astToken, root.TokenInfo(astToken).RawText(), token, root.TokenInfo(token).RawText())
			t.Log(root.DebugAnnotated())
		}
		require.Equal(t, astToken, token)
		token, _ = seq.Next(token)
	}
	// And backwards
	token, ok = seq.Last()
	require.True(t, ok)
	for i := len(tokens) - 1; i >= 0; i-- {
		astToken := tokens[i]
		require.Equal(t, astToken, token)
		token, _ = seq.Previous(token)
	}
}

func leavesAsSlice(file *ast.FileNode) []ast.Token {
	var tokens []ast.Token
	ast.Inspect(file, func(n ast.Node) bool {
		if ast.IsTerminalNode(n) {
			tok, comment := file.GetItem(n.(ast.TerminalNodeInterface).GetToken().AsItem())
			if comment.IsValid() {
				return true
			}
			tokens = append(tokens, tok)
		}
		return true
	})
	return tokens
}
