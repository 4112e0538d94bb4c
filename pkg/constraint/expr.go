package constraint

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprRule is a compute-or-veto rule compiled from an expression string.
// The expression runs against {value, name, attempt}:
//
//   - a boolean result is a verdict (true accepts the drawn value,
//     false vetoes it),
//   - any other result replaces the drawn value.
type exprRule struct {
	code    string
	program *vm.Program
}

// NewExprRule compiles a compute-or-veto rule from an expression.
//
//	r, err := constraint.NewExprRule(`value >= 18 && value <= 120`)
//	r, err := constraint.NewExprRule(`attempt > 3 ? 0 : value`)
func NewExprRule(code string) (Rule, error) {
	program, err := expr.Compile(code, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("constraint: compile %q: %w", code, err)
	}
	return &exprRule{code: code, program: program}, nil
}

func (r *exprRule) Name() string { return "expr(" + r.code + ")" }

func (r *exprRule) Apply(ctx *Context) (Outcome, error) {
	result, err := expr.Run(r.program, map[string]any{
		"value":   ctx.Drawn,
		"name":    ctx.Property.Name,
		"attempt": ctx.Attempt,
	})
	if err != nil {
		return Accept(ctx.Drawn), fmt.Errorf("constraint: eval %q: %w", r.code, err)
	}
	if verdict, ok := result.(bool); ok {
		if verdict {
			return Accept(ctx.Drawn), nil
		}
		return Veto(), nil
	}
	return Accept(result), nil
}
