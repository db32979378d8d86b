// Package lsp serves cargowatch diagnostics to editors over stdio JSON-RPC.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/yacobolo/cargowatch"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Config    cargowatch.Config
	Runner    cargowatch.Runner
	Manifests *cargowatch.ManifestCache
	Logger    *log.Logger
	Version   string
}

// Server handles stdio JSON-RPC and drives a Checker from didSave
// notifications. It is the Checker's Publisher and Notifier.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex
	runs   sync.WaitGroup

	checker           *cargowatch.Checker
	logger            *log.Logger
	version           string
	baseCtx           context.Context
	shutdownRequested bool
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "lsp: ", log.LstdFlags)
	}
	s := &Server{
		in:      bufio.NewReader(in),
		out:     bufio.NewWriter(out),
		logger:  logger,
		version: opts.Version,
		baseCtx: context.Background(),
	}
	var checkerOpts []cargowatch.Option
	if opts.Manifests != nil {
		checkerOpts = append(checkerOpts, cargowatch.WithManifestCache(opts.Manifests))
	}
	s.checker = cargowatch.NewChecker(opts.Config, opts.Runner, s, s, checkerOpts...)
	return s
}

// Checker returns the Checker driven by this server
func (s *Server) Checker() *cargowatch.Checker {
	return s.checker
}

// Run serves LSP requests until exit or EOF. In-flight check runs are
// cancelled and awaited before Run returns.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer s.runs.Wait()
	defer cancel()
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	for {
		payload, err := readFrame(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				Save: saveOptions{IncludeText: false},
			},
		},
		ServerInfo: serverInfo{Name: "cargowatch", Version: s.version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" || !s.checker.Matches(path) {
		return nil
	}
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		result, err := s.checker.OnSave(ctx, path)
		if err != nil {
			s.logf("check failed for %s: %v", path, err)
			return
		}
		if result != nil && result.Discarded {
			s.logf("discarded stale run %d for %s", result.Generation, path)
		}
	}()
	return nil
}

// Publish implements cargowatch.Publisher
func (s *Server) Publish(file string, diags []cargowatch.Diagnostic) error {
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, lspDiagnostic{
			Range: lspRange{
				Start: position{Line: d.Range.Start.Line, Character: d.Range.Start.Character},
				End:   position{Line: d.Range.End.Line, Character: d.Range.End.Character},
			},
			Severity: int(d.Severity),
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		})
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         pathToURI(file),
		Diagnostics: list,
	})
}

// Status implements cargowatch.Notifier
func (s *Server) Status(state cargowatch.State, text string) {
	s.notify("window/logMessage", messageLog, fmt.Sprintf("[%s] %s", state, text))
}

// Warn implements cargowatch.Notifier
func (s *Server) Warn(text string) {
	s.notify("window/showMessage", messageWarning, text)
}

// Error implements cargowatch.Notifier
func (s *Server) Error(text string) {
	s.notify("window/showMessage", messageError, text)
}

func (s *Server) notify(method string, kind int, text string) {
	if err := s.sendNotification(method, showMessageParams{Type: kind, Message: text}); err != nil {
		s.logf("failed to send %s: %v", method, err)
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(payload)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(rpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}

func (s *Server) sendNotification(method string, params any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeFrame(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	s.logger.Printf(format, args...)
}
