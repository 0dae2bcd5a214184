package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/soochol/wfcheck/internal/flow"
)

// Rule severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule is a user-defined per-node check. When is a boolean expression over
// the node's id, name, type, disabled and parameters fields; a node for
// which it evaluates to true is reported with the rule's severity.
//
// Example: type == "http-request" && parameters.url == nil
type Rule struct {
	Name     string `yaml:"name"`
	When     string `yaml:"when"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

// ruleEnv is the environment a rule expression sees for one node.
type ruleEnv struct {
	ID         string         `expr:"id"`
	Name       string         `expr:"name"`
	Type       string         `expr:"type"`
	Disabled   bool           `expr:"disabled"`
	Parameters map[string]any `expr:"parameters"`
}

type compiledRule struct {
	Rule
	program *vm.Program
}

func compileRule(r Rule) (compiledRule, error) {
	if r.Name == "" {
		return compiledRule{}, fmt.Errorf("rule has no name")
	}
	switch r.Severity {
	case "":
		r.Severity = SeverityWarning
	case SeverityError, SeverityWarning:
	default:
		return compiledRule{}, fmt.Errorf("rule %s: unknown severity %q", r.Name, r.Severity)
	}
	program, err := expr.Compile(r.When, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return compiledRule{}, fmt.Errorf("compile rule %s: %w", r.Name, err)
	}
	return compiledRule{Rule: r, program: program}, nil
}

// apply evaluates the rule against n and records any match on report. An
// evaluation failure becomes a warning rather than aborting validation.
func (r compiledRule) apply(n flow.Node, report *flow.Report) {
	params := n.Parameters
	if params == nil {
		params = map[string]any{}
	}
	env := ruleEnv{ID: n.ID, Name: n.Name, Type: n.Type, Disabled: n.Disabled, Parameters: params}
	code := flow.CodeRulePrefix + r.Name

	out, err := expr.Run(r.program, env)
	if err != nil {
		report.AddWarning(code, n.ID, fmt.Sprintf("Rule %s failed on node %q: %v", r.Name, label(n), err))
		return
	}
	if matched, _ := out.(bool); !matched {
		return
	}

	msg := r.Message
	if msg == "" {
		msg = fmt.Sprintf("matched rule %s", r.Name)
	}
	msg = fmt.Sprintf("Node %q: %s", label(n), msg)
	if r.Severity == SeverityError {
		report.AddError(code, n.ID, msg)
	} else {
		report.AddWarning(code, n.ID, msg)
	}
}
