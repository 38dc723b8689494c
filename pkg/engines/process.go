/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: process.go
Description: Process-backed engine implementations for the Akaylee Templater. The oracle
and target engines are external, possibly slow or failing, black-box services; these
implementations invoke them as helper commands exchanging JSON over stdin/stdout, with
the context deadline killing the process on timeout.
*/

package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

// oracleRequest is the JSON payload sent to the oracle helper command.
type oracleRequest struct {
	Grammar string `json:"grammar"`
	Sample  string `json:"sample"`
}

// oracleResponse is the JSON payload the oracle helper writes to stdout.
type oracleResponse struct {
	FieldNames     []string        `json:"field_names"`
	Rows           [][]interface{} `json:"rows"`
	Error          string          `json:"error"`
	InvalidGrammar bool            `json:"invalid_grammar"`
}

// templateRequest is the JSON payload sent to the target engine helper.
type templateRequest struct {
	Template string `json:"template"`
	Sample   string `json:"sample"`
}

// templateResponse is the JSON payload the target engine helper writes.
type templateResponse struct {
	Result interface{} `json:"result"`
	Error  string      `json:"error"`
}

// ProcessOracleEngine runs the oracle extraction engine as a helper command.
type ProcessOracleEngine struct {
	Command []string // Helper command and arguments
}

// NewProcessOracleEngine creates an oracle engine around a helper command.
func NewProcessOracleEngine(command []string) *ProcessOracleEngine {
	return &ProcessOracleEngine{Command: command}
}

// Extract invokes the helper with the grammar and sample and normalizes its
// response. A helper-reported grammar error maps to InvalidGrammar; every
// other failure maps to ExtractionFailure.
func (e *ProcessOracleEngine) Extract(ctx context.Context, grammar string, sample string) (*interfaces.OracleResult, error) {
	var resp oracleResponse
	err := runHelper(ctx, e.Command, &oracleRequest{Grammar: grammar, Sample: sample}, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, interfaces.WrapFailure(interfaces.Timeout, err, "oracle helper timed out")
		}
		return nil, interfaces.WrapFailure(interfaces.ExtractionFailure, err, "oracle helper failed")
	}
	if resp.InvalidGrammar {
		return nil, interfaces.NewFailure(interfaces.InvalidGrammar, "%s", resp.Error)
	}
	if resp.Error != "" {
		return nil, interfaces.NewFailure(interfaces.ExtractionFailure, "%s", resp.Error)
	}
	return &interfaces.OracleResult{FieldNames: resp.FieldNames, Rows: resp.Rows}, nil
}

// ProcessTemplateEngine runs the target template engine as a helper command.
type ProcessTemplateEngine struct {
	Command []string // Helper command and arguments
}

// NewProcessTemplateEngine creates a target engine around a helper command.
func NewProcessTemplateEngine(command []string) *ProcessTemplateEngine {
	return &ProcessTemplateEngine{Command: command}
}

// Execute invokes the helper with the template and sample and returns its
// nested result tree.
func (e *ProcessTemplateEngine) Execute(ctx context.Context, template string, sample string) (*interfaces.TemplateResult, error) {
	var resp templateResponse
	err := runHelper(ctx, e.Command, &templateRequest{Template: template, Sample: sample}, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, interfaces.WrapFailure(interfaces.Timeout, err, "target engine helper timed out")
		}
		return nil, interfaces.WrapFailure(interfaces.TemplateExecutionError, err, "target engine helper failed")
	}
	if resp.Error != "" {
		return nil, interfaces.NewFailure(interfaces.TemplateExecutionError, "%s", resp.Error)
	}
	return &interfaces.TemplateResult{Root: resp.Result}, nil
}

// runHelper executes a helper command, writing the request as JSON to its
// stdin and decoding its stdout as JSON. The context deadline terminates
// the process; there is no finer-grained cancellation into the engine.
func runHelper(ctx context.Context, command []string, request interface{}, response interface{}) error {
	if len(command) == 0 {
		return fmt.Errorf("no helper command configured")
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("helper %s: %w (stderr: %s)", command[0], err, truncate(stderr.String(), 200))
	}
	if err := json.Unmarshal(stdout.Bytes(), response); err != nil {
		return fmt.Errorf("decoding helper response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
