// Package lsp serves structural warnings and sniff violations as LSP
// diagnostics. Every document change triggers a full re-lex and
// re-annotation of that document; there is no incremental update, so
// the server state is just the open document texts.
package lsp

import (
	"net/url"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/tokenscope/annotate"
	"github.com/dhamidi/tokenscope/lang/clike"
	"github.com/dhamidi/tokenscope/sniff"
	"github.com/dhamidi/tokenscope/token"
)

const lsName = "tokenscope"

var log = commonlog.GetLogger("tokenscope.lsp")

type Server struct {
	pipeline *annotate.Pipeline
	grammar  *annotate.Grammar
	runner   *sniff.Runner
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu        sync.Mutex
	documents map[string]string
}

func NewServer(version string, pipeline *annotate.Pipeline, grammar *annotate.Grammar, runner *sniff.Runner) *Server {
	s := &Server{
		pipeline:  pipeline,
		grammar:   grammar,
		runner:    runner,
		version:   version,
		documents: make(map[string]string),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDocument(params.TextDocument.URI, whole.Text)
		}
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.setDocument(params.TextDocument.URI, *params.Text)
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) setDocument(uri, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()
}

// publishDiagnostics re-annotates the document from scratch and sends
// both structural warnings and sniff violations to the client.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	s.mu.Lock()
	text, ok := s.documents[uri]
	s.mu.Unlock()
	if !ok {
		return
	}

	ts, warnings := s.pipeline.Run(clike.Tokenize([]byte(text)))
	file := sniff.NewFile(uriToPath(uri), ts, warnings, s.grammar)
	violations := s.runner.Run(file)

	log.Debugf("%s: %d warnings, %d violations", uri, len(warnings), len(violations))

	diagnostics := make([]protocol.Diagnostic, 0, len(warnings)+len(violations))
	for _, w := range warnings {
		diagnostics = append(diagnostics, diagnostic(
			tokenRange(ts, w.Token), protocol.DiagnosticSeverityWarning, w.Code, w.Message))
	}
	for _, v := range violations {
		severity := protocol.DiagnosticSeverityWarning
		if v.Severity == sniff.SeverityError {
			severity = protocol.DiagnosticSeverityError
		}
		diagnostics = append(diagnostics, diagnostic(
			positionRange(v.Line, v.Column), severity, v.Code, v.Message))
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func diagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, code, message string) protocol.Diagnostic {
	source := lsName
	codeValue := protocol.IntegerOrString{Value: code}
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Code:     &codeValue,
		Source:   &source,
		Message:  message,
	}
}

// tokenRange converts a token index to an LSP range. LSP positions are
// zero-based while token positions are one-based.
func tokenRange(ts token.Stream, i int) protocol.Range {
	if i < 0 || i >= len(ts) {
		return positionRange(1, 1)
	}
	start := protocol.Position{
		Line:      uint32(ts[i].Line - 1),
		Character: uint32(ts[i].Column - 1),
	}
	end := protocol.Position{
		Line:      start.Line,
		Character: start.Character + uint32(ts[i].Length),
	}
	return protocol.Range{Start: start, End: end}
}

func positionRange(line, column int) protocol.Range {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	pos := protocol.Position{Line: uint32(line - 1), Character: uint32(column - 1)}
	return protocol.Range{Start: pos, End: pos}
}

func uriToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return strings.TrimPrefix(uri, "file://")
	}
	return parsed.Path
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	kind := protocol.TextDocumentSyncKind(i)
	return &kind
}
