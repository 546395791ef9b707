package primitize

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	valueVariable  = "value"
	recordVariable = "record"
)

func compileExpression(source string, opts ...expr.Option) (*vm.Program, error) {
	program, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, err)
	}
	return program, nil
}

func expressionEnv(record interface{}, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		valueVariable:  value,
		recordVariable: record,
	}
}

// NewExpressionValidator compiles a boolean expression over value and record into a validator
func NewExpressionValidator(source string) (Validator, error) {
	program, err := compileExpression(source, expr.AsBool())
	if err != nil {
		return nil, err
	}
	return func(record interface{}, value interface{}) (bool, string) {
		output, err := vm.Run(program, expressionEnv(record, value))
		if err != nil {
			return false, err.Error()
		}
		if valid, ok := output.(bool); ok && valid {
			return true, ""
		}
		return false, source
	}, nil
}

// NewExpressionModifier compiles an expression over value and record into a modifier
func NewExpressionModifier(source string) (Modifier, error) {
	program, err := compileExpression(source)
	if err != nil {
		return nil, err
	}
	return func(record interface{}, value interface{}) (interface{}, error) {
		output, err := vm.Run(program, expressionEnv(record, value))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %q: %w", source, err)
		}
		return output, nil
	}, nil
}
