// Package tool exposes the reservation operations as named tools with declared
// input schemas, dispatched through a closed table of typed handlers.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

// Definition binds a tool name and schema to its handler. Build one with Define.
type Definition struct {
	Name        string
	Description string
	Params      map[string]*schema.ParameterInfo

	handle func(ctx context.Context, args Args) (any, error)
}

// Define builds a Definition whose arguments are decoded into In before run is
// called. A decode error is reported as a validation failure.
func Define[In, Out any](
	name, description string,
	params map[string]*schema.ParameterInfo,
	decode func(Args) (In, error),
	run func(ctx context.Context, in In) (Out, error),
) Definition {
	return Definition{
		Name:        name,
		Description: description,
		Params:      params,
		handle: func(ctx context.Context, args Args) (any, error) {
			in, err := decode(args)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", contractx.ErrValidation, name, err)
			}
			return run(ctx, in)
		},
	}
}

func (d Definition) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        d.Name,
		Desc:        d.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(d.Params),
	}
}

var _ contractx.ToolGateway = (*Registry)(nil)

// Registry is the fixed set of tools offered to the planner. It is immutable
// after construction and safe for concurrent use.
type Registry struct {
	order []string
	defs  map[string]Definition
}

func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" || d.handle == nil {
			return nil, errors.New("tool definition requires a name and a handler")
		}
		if _, dup := r.defs[name]; dup {
			return nil, fmt.Errorf("tool %q registered twice", name)
		}
		r.defs[name] = d
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) ListTools(ctx context.Context) ([]contractx.ToolDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]contractx.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		d := r.defs[name]
		info := d.Info()
		raw, err := inputSchema(info)
		if err != nil {
			return nil, fmt.Errorf("%w: tool=%s: %v", contractx.ErrToolDiscovery, name, err)
		}
		out = append(out, contractx.ToolDescriptor{
			Name:        name,
			Description: d.Description,
			InputSchema: raw,
			Info:        info,
		})
	}
	return out, nil
}

// CallTool invokes a tool by name. The returned result is always usable as
// text for the model; a non-nil error classifies the failure as
// ErrUnknownTool, ErrValidation or ErrToolInvoke.
func (r *Registry) CallTool(ctx context.Context, name string, args map[string]any) (contractx.ToolResult, error) {
	d, ok := r.defs[name]
	if !ok {
		err := fmt.Errorf("%w: %q", contractx.ErrUnknownTool, name)
		return contractx.TextResult(name, fmt.Sprintf("Tool %q does not exist. Available tools: %s.", name, strings.Join(r.order, ", ")), true), err
	}

	in := Args(args)
	if in == nil {
		in = Args{}
	}
	if err := validateArgs(d.Params, in); err != nil {
		return contractx.TextResult(name, fmt.Sprintf("Invalid arguments for %s: %v.", name, err), true),
			fmt.Errorf("%w: %s: %v", contractx.ErrValidation, name, err)
	}

	out, err := d.handle(ctx, in)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			return contractx.TextResult(name, fmt.Sprintf("Invalid arguments for %s: %v.", name, err), true), err
		}
		return contractx.TextResult(name, fmt.Sprintf("The %s tool failed: %v", name, err), true),
			fmt.Errorf("%w: %s: %w", contractx.ErrToolInvoke, name, err)
	}

	body, err := json.Marshal(out)
	if err != nil {
		return contractx.TextResult(name, fmt.Sprintf("The %s tool returned an unreadable result.", name), true),
			fmt.Errorf("%w: %s: marshal result: %v", contractx.ErrToolInvoke, name, err)
	}
	return contractx.TextResult(name, string(body), false), nil
}

func inputSchema(info *schema.ToolInfo) (json.RawMessage, error) {
	if info.ParamsOneOf == nil {
		return json.RawMessage(`{"type":"object","properties":{}}`), nil
	}
	s, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}
