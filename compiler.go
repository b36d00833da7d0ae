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
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/schemac/schemac/ast"
	"github.com/schemac/schemac/linker"
	"github.com/schemac/schemac/options"
	"github.com/schemac/schemac/parser"
	"github.com/schemac/schemac/reporter"
	"github.com/schemac/schemac/sourceinfo"
)

// Compiler turns protobuf source files, or other intermediate
// representations, into fully linked descriptors.
//
// Compilation runs single-threaded and sequentially: files are discovered by
// following import statements depth-first, parsed, and then linked in
// topological order (a file is never linked until all of its own
// dependencies have been). There is no internal parallelism; a Compiler is
// meant to be invoked from a build step that runs in tens of milliseconds,
// where the coordination overhead of a concurrent scheduler would not pay
// for itself and would only make the order diagnostics are reported in
// harder to pin down.
//
// The compilation process involves five steps for each protobuf source file:
//  1. Parsing the source into an AST (abstract syntax tree).
//  2. Converting the AST into descriptor protos.
//  3. Linking descriptor protos into fully linked descriptors.
//  4. Interpreting options.
//  5. Computing source code information.
//
// With fully linked descriptors, code generators could be invoked (though
// that step is not implemented by this package and not a responsibility of
// this type).
type Compiler struct {
	// Resolves path/file names into source code or intermediate representations
	// for protobuf source files. This is how the compiler loads the files to
	// be compiled as well as all dependencies. This field is the only required
	// field.
	Resolver Resolver

	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the compilation after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter

	// If unspecified or set to SourceInfoNone, source code information will not
	// be included in the resulting descriptors. Source code information is
	// metadata in the file descriptor that provides position information (i.e.
	// the line and column where file elements were defined) as well as comments.
	//
	// If set to SourceInfoStandard, normal source code information will be
	// included in the resulting descriptors. This matches the output of the
	// reference compiler. If set to SourceInfoExtraComments, the resulting
	// descriptor will attempt to preserve as many comments as possible, for
	// all elements in the file, not just for complete declarations.
	//
	// If Resolver returns descriptors or descriptor protos for a file, then
	// those descriptors will not be modified. If they do not already include
	// source code info, they will be left that way when the compile operation
	// concludes. Similarly, if they already have source code info but this flag
	// is false, existing info will be left in place.
	SourceInfoMode SourceInfoMode

	// If true, ASTs are retained in compilation results for which an AST was
	// constructed. So any linker.Result value in the resulting compiled files
	// will have an AST, in addition to descriptors. If left false, the AST
	// will be removed as soon as it's no longer needed, to reduce total
	// memory usage for operations involving a large number of files.
	RetainASTs bool

	// If true, all linked dependencies will be provided in the compiler
	// results, even if they were not explicitly requested to be compiled.
	// Otherwise, only the requested files will be included in the results.
	IncludeDependenciesInResults bool
}

// SourceInfoMode indicates how source code info is generated by a Compiler.
type SourceInfoMode int

const (
	// SourceInfoNone indicates that no source code info is generated.
	SourceInfoNone = SourceInfoMode(0)
	// SourceInfoStandard indicates that the standard source code info is
	// generated, which includes comments only for complete declarations.
	SourceInfoStandard = SourceInfoMode(1)
	// SourceInfoExtraComments indicates that source code info is generated
	// and will include comments for all elements (more comments than would
	// be found in a descriptor produced by the reference compiler).
	SourceInfoExtraComments = SourceInfoMode(2)
	// SourceInfoExtraOptionLocations indicates that source code info is
	// generated with additional locations for elements inside of message
	// literals in option values. This can be combined with the above by
	// bitwise-OR'ing it with SourceInfoExtraComments.
	SourceInfoExtraOptionLocations = SourceInfoMode(4)
)

// LoadState describes where a file is in the compilation pipeline.
type LoadState int

const (
	// StateDiscovered means the file's path has been identified (as a root
	// or as someone's import) but loading has not yet begun.
	StateDiscovered LoadState = iota
	// StateParsing means the file is currently being parsed or its imports
	// are currently being resolved; a file revisited in this state indicates
	// a circular import.
	StateParsing
	// StateParsed means lexing/parsing (or an equivalent pre-parsed input
	// from the resolver) succeeded.
	StateParsed
	// StateLinked means every type reference in the file has been resolved
	// against its own symbols and those of its dependencies.
	StateLinked
	// StateInterpreted means uninterpreted options have been resolved and
	// encoded into their target option fields.
	StateInterpreted
	// StateValidated means semantic validation has completed successfully.
	StateValidated
	// StateEmitted means the file contributed to the compiler's result set.
	StateEmitted
	// StateFailed is a terminal state reachable from any other: the file
	// could not progress further due to an unrecoverable error.
	StateFailed
)

type CompileResult struct {
	linker.Files
	PartialLinkResults    map[ResolvedPath]linker.Result
	UnlinkedParserResults map[ResolvedPath]parser.Result
}

// there are a variety of string identifiers used to refer to compiler results
// in different contexts, some of which cannot be interchanged. To avoid
// accidental misuse, these types are used to distinguish them.
type (
	// An import path as it appears in a file.
	UnresolvedPath string
	// A resolved path, uniquely identifying a file.
	ResolvedPath string
)

// Compile compiles the given unique paths into fully-linked descriptors. The
// compiler's resolver is used to locate source code (or intermediate
// artifacts such as parsed ASTs or descriptor protos) and then do what is
// necessary to transform that into descriptors (parsing, linking, etc).
//
// It is very important that the paths requested are known to the resolver
// to be unique. Because the same file can be resolved under different paths
// depending on the import context, these paths must be the ones that imports
// will be resolved *to*.
//
// Elements in the given returned files will implement [linker.Result] if the
// compiler had to link it (i.e. the resolver provided either a descriptor
// proto or source code). That result will contain a full AST for the file if
// the compiler had to parse it (i.e. the resolver provided source code for
// that file).
//
// Files are loaded and linked sequentially, in import-discovery order; ctx
// is only consulted between files so a long-running resolver (such as one
// backed by network I/O) can still be aborted promptly.
func (c *Compiler) Compile(ctx context.Context, paths ...ResolvedPath) (CompileResult, error) {
	if len(paths) == 0 {
		return CompileResult{}, nil
	}

	d := &driver{
		c:       c,
		h:       reporter.NewHandler(c.Reporter),
		sym:     &linker.Symbols{},
		entries: map[ResolvedPath]*fileEntry{},
	}

	entries := make([]*fileEntry, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return CompileResult{}, err
		}
		e, err := d.load(ctx, UnresolvedPath(p), true, nil, nil)
		if err != nil && e == nil {
			return CompileResult{}, err
		}
		entries = append(entries, e)
	}

	descs := make(linker.Files, 0, len(entries))
	unlinked := make(map[ResolvedPath]parser.Result)
	partiallyLinked := make(map[ResolvedPath]linker.Result)
	var firstError error
	for _, e := range entries {
		if e.err != nil && firstError == nil {
			firstError = e.err
		}
		switch {
		case e.res != nil:
			descs = append(descs, e.res)
		case e.partialLinkRes != nil:
			partiallyLinked[e.resolvedPath] = e.partialLinkRes
		case e.parseRes != nil:
			unlinked[e.resolvedPath] = e.parseRes
		}
	}

	if c.IncludeDependenciesInResults {
		descs = linker.ComputeReflexiveTransitiveClosure(descs)
	}

	result := CompileResult{
		Files:                 descs,
		PartialLinkResults:    partiallyLinked,
		UnlinkedParserResults: unlinked,
	}
	if err := d.h.Error(); err != nil {
		return result, err
	}
	// link errors are reported through a per-file SubHandler, so d.h can
	// be error-free while an entry still carries an error.
	return result, firstError
}

// fileEntry tracks the state of a single file as the driver walks the
// import graph. Unlike the concurrent design this replaces, there is only
// ever one fileEntry under construction at a time (the driver recurses
// synchronously into each import before returning to its importer), so no
// locking is needed.
type fileEntry struct {
	resolvedPath ResolvedPath
	state        LoadState

	// true if this file was explicitly requested for compilation; otherwise
	// it was pulled in as someone else's import.
	explicitFile bool

	res            linker.Result
	parseRes       parser.Result
	partialLinkRes linker.Result
	err            error
}

func (e *fileEntry) fail(err error) (*fileEntry, error) {
	e.err = err
	e.res = nil
	e.state = StateFailed
	return e, err
}

func (e *fileEntry) failPartial(parseRes parser.Result, partialLinkRes linker.Result, err error) (*fileEntry, error) {
	e.err = err
	e.res = nil
	e.parseRes = parseRes
	e.partialLinkRes = partialLinkRes
	e.state = StateFailed
	return e, err
}

// ImportContext is the parse result of the file doing the importing, passed
// to Resolver.FindFileByPath so a resolver can make context-sensitive
// decisions (e.g. resolving relative to the importer's own location).
type ImportContext parser.Result

// driver owns every file loaded during one call to Compile. It corresponds
// to the compiler driver: a map from resolved path to LoadState (folded
// into fileEntry.state here) plus the discovery-order traversal that a
// single-threaded depth-first walk gives for free.
type driver struct {
	c   *Compiler
	h   *reporter.Handler
	sym *linker.Symbols

	entries map[ResolvedPath]*fileEntry

	descriptorProtoChecked  bool
	descriptorProtoIsCustom bool
}

const descriptorProtoPath = "google/protobuf/descriptor.proto"

func (d *driver) hasOverrideDescriptorProto() bool {
	if !d.descriptorProtoChecked {
		d.descriptorProtoChecked = true
		func() {
			defer func() {
				// ignore a panic here; just assume no custom descriptor.proto
				_ = recover()
			}()
			res, err := d.c.Resolver.FindFileByPath(descriptorProtoPath, nil)
			d.descriptorProtoIsCustom = err == nil && res.ResolvedPath != descriptorProtoPath
		}()
	}
	return d.descriptorProtoIsCustom
}

// load resolves dep (as imported from whence, or as a root if whence is
// nil), then parses and links it if it has not already been loaded. stack
// holds the resolved paths of every file currently being loaded by an
// ancestor call, so that revisiting one of them is recognized as an import
// cycle rather than mistaken for a diamond dependency.
func (d *driver) load(ctx context.Context, dep UnresolvedPath, explicitFile bool, whence ImportContext, stack []ResolvedPath) (*fileEntry, error) {
	sr, findErr := d.c.Resolver.FindFileByPath(dep, whence)
	if findErr != nil {
		return nil, errFailedToResolve{err: findErr, path: dep}
	}
	if sr.ResolvedPath == "" {
		panic("FindFileByPath: resolved path must be set")
	}

	if whence != nil && sr.ResolvedPath == ResolvedPath(whence.FileDescriptorProto().GetName()) {
		// doh! file imports itself
		span := findImportSpan(whence, dep)
		handleImportCycle(d.h, span, []ResolvedPath{sr.ResolvedPath}, dep)
		return nil, d.h.Error()
	}

	for _, seen := range stack {
		if seen == sr.ResolvedPath {
			span := findImportSpan(whence, dep)
			handleImportCycle(d.h, span, append([]ResolvedPath{}, stack...), dep)
			return nil, d.h.Error()
		}
	}

	if existing, ok := d.entries[sr.ResolvedPath]; ok {
		existing.explicitFile = existing.explicitFile || explicitFile
		return existing, existing.err
	}

	entry := &fileEntry{resolvedPath: sr.ResolvedPath, explicitFile: explicitFile, state: StateDiscovered}
	d.entries[sr.ResolvedPath] = entry

	if c, ok := sr.Source.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	return d.compileEntry(ctx, entry, &sr, append(stack, sr.ResolvedPath))
}

func (d *driver) compileEntry(ctx context.Context, entry *fileEntry, sr *SearchResult, stack []ResolvedPath) (*fileEntry, error) {
	entry.state = StateParsing

	parseRes, err := d.asParseResult(sr)
	if parseRes == nil {
		return entry.fail(err)
	}
	sr.ParseResult = parseRes
	entry.state = StateParsed

	if linkRes, ok := parseRes.(linker.Result); ok {
		// the resolver already returned a fully linked result
		entry.res = linkRes
		entry.parseRes = parseRes
		entry.state = StateEmitted
		return entry, nil
	}

	deps, overrideDescriptorProto, err := d.loadDependencies(ctx, entry, parseRes, stack)
	if err != nil {
		return entry.fail(err)
	}

	file, err := d.link(entry, parseRes, deps, overrideDescriptorProto)
	if err != nil {
		return entry.failPartial(parseRes, file, err)
	}
	entry.res = file
	entry.parseRes = parseRes
	entry.state = StateEmitted
	return entry, nil
}

func (d *driver) loadDependencies(ctx context.Context, entry *fileEntry, parseRes parser.Result, stack []ResolvedPath) (linker.Files, linker.File, error) {
	fileDescriptorProto := parseRes.FileDescriptorProto()
	protoImports := fileDescriptorProto.Dependency

	var wantsDescriptorProto bool
	if d.hasOverrideDescriptorProto() && entry.resolvedPath != descriptorProtoPath {
		var includesDescriptorProto bool
		for _, imp := range protoImports {
			if imp == descriptorProtoPath {
				includesDescriptorProto = true
				break
			}
		}
		wantsDescriptorProto = !includesDescriptorProto
	}

	if len(protoImports) == 0 && !wantsDescriptorProto {
		return nil, nil, nil
	}

	deps := make(linker.Files, 0, len(protoImports))
	for _, imp := range protoImports {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		depEntry, err := d.load(ctx, UnresolvedPath(imp), false, parseRes, stack)
		if err != nil {
			if rerr, ok := err.(errFailedToResolve); ok {
				// Report errors resolving an import with a source position
				// that pinpoints the offending import statement, rather
				// than failing the whole compile immediately.
				if herr := d.h.HandleErrorWithPos(findImportSpan(parseRes, rerr.path), rerr); herr != nil {
					return nil, nil, herr
				}
				continue
			}
			if errors.Is(err, reporter.ErrInvalidSource) {
				// the handler has suppressed all errors for this one, to
				// allow link errors to be reported later
				continue
			}
			return nil, nil, err
		}
		deps = append(deps, depEntry.res)
	}

	var overrideDescriptorProto linker.File
	if wantsDescriptorProto {
		depEntry, err := d.load(ctx, descriptorProtoPath, false, parseRes, stack)
		// descriptor.proto wasn't explicitly imported, so a failure here is
		// not fatal to the rest of the compile.
		if err == nil {
			overrideDescriptorProto = depEntry.res
		}
	}

	return deps, overrideDescriptorProto, nil
}

func (d *driver) link(entry *fileEntry, parseRes parser.Result, deps linker.Files, overrideDescriptorProtoRes linker.File) (linker.Result, error) {
	h := d.h.SubHandler()

	pendingSymtab := d.sym.Clone()
	file, err := linker.Link(parseRes, deps, pendingSymtab, h)
	if err != nil {
		// a link error may leave the symbol table in an inconsistent state,
		// so don't commit it
		return file, err
	}
	d.sym = pendingSymtab
	entry.state = StateLinked

	var interpretOpts []options.InterpreterOption
	if overrideDescriptorProtoRes != nil {
		interpretOpts = []options.InterpreterOption{options.WithOverrideDescriptorProto(overrideDescriptorProtoRes)}
	}

	optsIndex, descIndex, err := options.InterpretOptions(file, h, interpretOpts...)
	if err != nil {
		return file, err
	}
	entry.state = StateInterpreted

	if err := file.ValidateOptions(h); err != nil {
		return file, err
	}
	if entry.explicitFile {
		file.CheckForUnusedImports(h)
	}
	entry.state = StateValidated

	if needsSourceInfo(parseRes, d.c.SourceInfoMode) {
		var srcInfoOpts []sourceinfo.GenerateOption
		if d.c.SourceInfoMode&SourceInfoExtraComments != 0 {
			srcInfoOpts = append(srcInfoOpts, sourceinfo.WithExtraComments())
		}
		if d.c.SourceInfoMode&SourceInfoExtraOptionLocations != 0 {
			srcInfoOpts = append(srcInfoOpts, sourceinfo.WithExtraOptionLocations())
		}
		parseRes.FileDescriptorProto().SourceCodeInfo = sourceinfo.GenerateSourceInfo(parseRes, optsIndex, srcInfoOpts...)
		file.PopulateSourceCodeInfo(optsIndex, descIndex)
	}

	if !d.c.RetainASTs {
		file.RemoveAST()
	}
	return file, nil
}

func needsSourceInfo(parseRes parser.Result, mode SourceInfoMode) bool {
	return mode != SourceInfoNone && parseRes.AST() != nil && parseRes.FileDescriptorProto().SourceCodeInfo == nil
}

func (d *driver) asParseResult(r *SearchResult) (parser.Result, error) {
	if r.ParseResult != nil {
		if r.ParseResult.FileDescriptorProto().GetName() != string(r.ResolvedPath) {
			return nil, fmt.Errorf("search result for %q returned descriptor for %q", r.ResolvedPath, r.ParseResult.FileDescriptorProto().GetName())
		}
		// the result will be mutated during linking, so make a defensive
		// copy in case the resolver caches and reuses this value.
		return parser.Clone(r.ParseResult), nil
	}

	if r.Proto != nil {
		if r.Proto.GetName() != string(r.ResolvedPath) {
			*r.Proto.Name = string(r.ResolvedPath)
		}
		descProto, _ := proto.Clone(r.Proto).(*descriptorpb.FileDescriptorProto)
		return parser.ResultWithoutAST(descProto), nil
	}

	file, err := d.asAST(r)
	if err != nil {
		if !errors.Is(err, reporter.ErrInvalidSource) || file == nil {
			return nil, err
		}
	}

	return parser.ResultFromAST(file, true, d.h)
}

func (d *driver) asAST(r *SearchResult) (*ast.FileNode, error) {
	if r.AST != nil {
		if r.AST.Name() != string(r.ResolvedPath) {
			return nil, fmt.Errorf("search result for %q returned descriptor for %q", r.ResolvedPath, r.AST.Name())
		}
		return r.AST, nil
	}
	return parser.Parse(string(r.ResolvedPath), r.Source, d.h, r.Version)
}

func handleImportCycle(h *reporter.Handler, span ast.SourceSpan, importSequence []ResolvedPath, dep UnresolvedPath) {
	var buf strings.Builder
	buf.WriteString("cycle found in imports: ")
	for _, imp := range importSequence {
		_, _ = fmt.Fprintf(&buf, "%q -> ", imp)
	}
	_, _ = fmt.Fprintf(&buf, "%q", dep)
	// error is saved and returned by the caller via h.Error()
	_ = h.HandleErrorf(span, "%s", buf.String())
}

func findImportSpan(res parser.Result, dep UnresolvedPath) ast.SourceSpan {
	if res == nil {
		return ast.UnknownSpan("")
	}
	root := res.AST()
	if root == nil {
		return ast.UnknownSpan(res.FileNode().Name())
	}
	for _, decl := range root.Decls {
		if imp, ok := decl.(*ast.ImportNode); ok {
			if imp.Name.AsString() == string(dep) {
				return root.NodeInfo(imp.Name)
			}
		}
	}
	// this should never happen...
	return ast.UnknownSpan(res.FileNode().Name())
}

// errFailedToResolve wraps an error returned by a Resolver so that, if it
// doesn't already mention the offending path, the path gets added to the
// message.
type errFailedToResolve struct {
	err  error
	path UnresolvedPath
}

func (e errFailedToResolve) Error() string {
	errMsg := e.err.Error()
	if strings.Contains(errMsg, string(e.path)) {
		return errMsg
	}
	return fmt.Sprintf("could not resolve path %q: %s", e.path, e.err.Error())
}

func (e errFailedToResolve) Unwrap() error {
	return e.err
}
