package visibility

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator decides whether a rule predicate holds for the given entity
// environment. Tab rules gate whole tabs (entity subtype not applicable);
// the filter generator reuses the same contract for descriptor predicates.
type Evaluator interface {
	Eval(rule string, env map[string]any) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, env map[string]any) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, env map[string]any) (bool, error) {
	return fn(rule, env)
}

// ExprEvaluator evaluates rules with expr-lang. Compiled programs are cached
// by expression string; the cache is safe for concurrent readers.
type ExprEvaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewExprEvaluator returns an empty-cache evaluator.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{cache: make(map[string]*vm.Program)}
}

// Eval compiles (or reuses) the rule and runs it against env. Identifiers
// absent from env evaluate as nil rather than erroring, so rules can reference
// optional entity attributes.
func (e *ExprEvaluator) Eval(rule string, env map[string]any) (bool, error) {
	e.mu.Lock()
	prog, ok := e.cache[rule]
	e.mu.Unlock()
	if !ok {
		var err error
		prog, err = expr.Compile(rule, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return false, fmt.Errorf("compile rule: %w", err)
		}
		e.mu.Lock()
		e.cache[rule] = prog
		e.mu.Unlock()
	}

	if env == nil {
		env = map[string]any{}
	}
	result, err := expr.Run(prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluate rule: %w", err)
	}
	holds, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("rule did not return bool")
	}
	return holds, nil
}

var defaultEvaluator = NewExprEvaluator()

// DefaultEvaluator returns the shared expr-backed evaluator.
func DefaultEvaluator() Evaluator { return defaultEvaluator }
