/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: func.go
Description: Function adapters for the engine interfaces. Let tests and callers inject
engine behavior as plain closures without declaring a struct type.
*/

package engines

import (
	"context"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

// OracleFunc adapts a function to the OracleEngine interface.
type OracleFunc func(ctx context.Context, grammar string, sample string) (*interfaces.OracleResult, error)

// Extract implements interfaces.OracleEngine.
func (f OracleFunc) Extract(ctx context.Context, grammar string, sample string) (*interfaces.OracleResult, error) {
	return f(ctx, grammar, sample)
}

// TemplateFunc adapts a function to the TemplateEngine interface.
type TemplateFunc func(ctx context.Context, template string, sample string) (*interfaces.TemplateResult, error)

// Execute implements interfaces.TemplateEngine.
func (f TemplateFunc) Execute(ctx context.Context, template string, sample string) (*interfaces.TemplateResult, error) {
	return f(ctx, template, sample)
}
