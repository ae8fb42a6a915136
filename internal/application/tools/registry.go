// Package tools exposes the hospital operations as named, JSON-invocable tools
// for an agent or any other function-calling client.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// Category groups tools for discovery
type Category string

const (
	CategoryLookup     Category = "lookup"
	CategoryGeospatial Category = "geospatial"
	CategoryAnalytics  Category = "analytics"
	CategoryDirectory  Category = "directory"
)

var categoryOrder = []Category{CategoryLookup, CategoryGeospatial, CategoryAnalytics, CategoryDirectory}

// InvokeFunc runs a tool with its raw JSON arguments
type InvokeFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool is a named operation with a JSON Schema for its arguments
type Tool struct {
	Name        string
	Description string
	Category    Category
	Parameters  map[string]interface{}
	Invoke      InvokeFunc
}

// Descriptor is the wire form of a tool definition
type Descriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    Category               `json:"category"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ErrorInfo is the structured error carried by a failed Result
type ErrorInfo struct {
	Type        apperrors.ErrorType `json:"type"`
	Message     string              `json:"message"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// Result is the envelope returned for every invocation. Lookup failures are
// results, not transport errors.
type Result struct {
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  *ErrorInfo  `json:"error,omitempty"`
}

// Registry holds tools by name
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]*Tool
	metrics *observability.Metrics
}

// NewRegistry creates an empty registry. metrics may be nil.
func NewRegistry(metrics *observability.Metrics) *Registry {
	return &Registry{
		tools:   make(map[string]*Tool),
		metrics: metrics,
	}
}

// Register adds a tool; names must be unique
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" || tool.Invoke == nil {
		return fmt.Errorf("tool must have a name and an invoke function")
	}
	if tool.Parameters == nil {
		tool.Parameters = objectSchema(nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name)
	}
	r.tools[tool.Name] = &tool
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns all tool names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns every tool definition grouped by category, then by name
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rank := make(map[Category]int, len(categoryOrder))
	for i, c := range categoryOrder {
		rank[c] = i
	}

	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, Descriptor{
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			Parameters:  t.Parameters,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Category] != rank[out[j].Category] {
			return rank[out[i].Category] < rank[out[j].Category]
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Describe renders the registry as plain text, one section per category
func (r *Registry) Describe() string {
	descriptors := r.Descriptors()
	if len(descriptors) == 0 {
		return "No tools registered"
	}

	var sb strings.Builder
	var current Category
	for _, d := range descriptors {
		if d.Category != current {
			current = d.Category
			sb.WriteString(fmt.Sprintf("\n=== %s ===\n", strings.ToUpper(string(current))))
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", d.Name, d.Description))
	}
	return sb.String()
}

// Invoke runs the named tool and wraps the outcome in a Result
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) Result {
	ctx, span := observability.StartSpan(ctx, "tool."+name)
	defer span.End()

	tool, ok := r.Get(name)
	if !ok {
		err := apperrors.NewNotFoundErrorWithSuggestions(fmt.Sprintf("Tool '%s' does not exist.", name), r.similarNames(name))
		return r.fail(ctx, span, name, err)
	}

	value, err := tool.Invoke(ctx, args)
	if err != nil {
		return r.fail(ctx, span, name, err)
	}

	observability.RecordToolInvocation(ctx, r.metrics, name, "")
	return Result{OK: true, Result: value}
}

func (r *Registry) fail(ctx context.Context, span trace.Span, name string, err error) Result {
	info := errorInfo(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, info.Message)
	span.SetAttributes(attribute.String("tool.error_type", string(info.Type)))

	observability.LoggerFromContext(ctx).Debug().
		Str("tool", name).
		Str("error_type", string(info.Type)).
		Msg(info.Message)
	observability.RecordToolInvocation(ctx, r.metrics, name, string(info.Type))
	return Result{OK: false, Error: info}
}

func (r *Registry) similarNames(name string) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var out []string
	for _, candidate := range r.Names() {
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func errorInfo(err error) *ErrorInfo {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return &ErrorInfo{
			Type:        appErr.Type,
			Message:     appErr.Explain(),
			Suggestions: appErr.Suggestions,
		}
	}
	return &ErrorInfo{Type: apperrors.ErrorTypeInternal, Message: err.Error()}
}
