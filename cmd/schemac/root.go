package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/schemac/schemac"
	"github.com/schemac/schemac/protoutil"
	"github.com/schemac/schemac/reporter"
)

const (
	protoPathFlagName         = "proto_path"
	protoPathFlagShortName    = "I"
	descriptorSetOutFlagName  = "descriptor_set_out"
	descriptorSetOutShortName = "o"
	includeImportsFlagName    = "include_imports"
	includeSourceInfoFlagName = "include_source_info"
)

// usageError is returned for command-line misuse, as opposed to a
// compilation failure. main() maps it to exit code 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

type flags struct {
	ImportPaths       []string
	DescriptorSetOut  string
	IncludeImports    bool
	IncludeSourceInfo bool
}

func (f *flags) bind(flagSet *pflag.FlagSet) {
	flagSet.StringArrayVarP(&f.ImportPaths, protoPathFlagName, protoPathFlagShortName, nil,
		"Path to a directory in which to search for imports. May be specified multiple times; directories are searched in order.")
	flagSet.StringVarP(&f.DescriptorSetOut, descriptorSetOutFlagName, descriptorSetOutShortName, "",
		"Path to write the compiled FileDescriptorSet to.")
	flagSet.BoolVar(&f.IncludeImports, includeImportsFlagName, false,
		"Include imported files in the output, not just the files named on the command line.")
	flagSet.BoolVar(&f.IncludeSourceInfo, includeSourceInfoFlagName, true,
		"Include SourceCodeInfo (comments and source positions) in the output.")
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "schemac [flags] <proto-file>...",
		Short:         "Compile .proto files into a serialized FileDescriptorSet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args)
		},
	}
	f.bind(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})
	return cmd
}

func run(ctx context.Context, f *flags, args []string) error {
	if len(args) == 0 {
		return usageError{"at least one source file is required"}
	}
	if f.DescriptorSetOut == "" {
		return usageError{fmt.Sprintf("--%s is required", descriptorSetOutFlagName)}
	}

	sourceInfoMode := schemac.SourceInfoNone
	if f.IncludeSourceInfo {
		sourceInfoMode = schemac.SourceInfoStandard
	}

	sawError := false
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			sawError = true
			fmt.Fprintln(os.Stderr, err.Error())
			return nil // keep going, collect as many diagnostics as possible
		},
		func(err reporter.ErrorWithPos) {
			fmt.Fprintln(os.Stderr, "warning: "+err.Error())
		},
	)

	comp := schemac.Compiler{
		Resolver:                     schemac.WithStandardImports(&schemac.SourceResolver{ImportPaths: f.ImportPaths}),
		Reporter:                     rep,
		SourceInfoMode:               sourceInfoMode,
		IncludeDependenciesInResults: f.IncludeImports,
	}

	paths := make([]schemac.ResolvedPath, len(args))
	for i, a := range args {
		paths[i] = schemac.ResolvedPath(a)
	}

	result, err := comp.Compile(ctx, paths...)
	if sawError || err != nil {
		if err != nil && !sawError {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return fmt.Errorf("compilation failed")
	}

	set := &descriptorpb.FileDescriptorSet{
		File: make([]*descriptorpb.FileDescriptorProto, 0, len(result.Files)),
	}
	for _, file := range result.Files {
		fd := protoutil.ProtoFromFileDescriptor(file)
		set.File = append(set.File, fd)
	}

	data, err := proto.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor set: %w", err)
	}
	if err := os.WriteFile(f.DescriptorSetOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.DescriptorSetOut, err)
	}
	return nil
}
