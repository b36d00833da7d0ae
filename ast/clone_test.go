package ast_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/schemac/schemac/ast"
	"github.com/schemac/schemac/parser"
	"github.com/schemac/schemac/reporter"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/testing/protocmp"
)

const complexProtoSource = `
syntax = "proto2";

package desc_test_complex;

import "google/protobuf/descriptor.proto";

option go_package = "testprotos";

message TopLevel {
  optional string name = 1 [default = "foo\nbar", deprecated = true];
  repeated int32 numbers = 2 [packed = true];

  extensions 100 to 199;

  message Nested {
    oneof either {
      string str_val = 1;
      int64 int_val = 2;
    }
  }

  extend google.protobuf.MessageOptions {
    optional double weight = 54321 [default = 1.5];
  }
}

enum TopLevelEnum {
  option allow_alias = true;
  ZERO = 0;
  ALIAS = 0;
}

service TopLevelService {
  rpc DoSomething (TopLevel) returns (TopLevel);
}
`

func TestClone(t *testing.T) {
	root, err := parser.Parse("desc_test_complex.proto", strings.NewReader(complexProtoSource), reporter.NewHandler(nil), 0)
	require.NoError(t, err)
	clone := ast.Clone(root)
	// filter NaNs
	if !cmp.Equal(root, clone, protocmp.Transform(), cmp.Comparer(floatCompare)) {
		t.Error(cmp.Diff(root, clone))
	}
	fileInfo := proto.GetExtension(root, ast.E_FileInfo).(*ast.FileInfo)
	cloneFileInfo := proto.GetExtension(clone, ast.E_FileInfo).(*ast.FileInfo)
	if fileInfo != cloneFileInfo {
		t.Error("FileInfo pointers not equal")
	}
}

func floatCompare(x, y float64) bool {
	return x == y || (x != x && y != y)
}
