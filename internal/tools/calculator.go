package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parley/parley/internal/core"
)

// CalculatorTool performs a basic arithmetic operation on two numbers.
type CalculatorTool struct{}

func (t *CalculatorTool) Name() string {
	return "calculator"
}

func (t *CalculatorTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		Type: "function",
		Function: core.FunctionSpec{
			Name:        "calculator",
			Description: "Perform a basic arithmetic operation on two numbers. Supported operations: add, sub, mul, div.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"first_num":  map[string]interface{}{"type": "number", "description": "First operand"},
					"second_num": map[string]interface{}{"type": "number", "description": "Second operand"},
					"operation":  map[string]interface{}{"type": "string", "enum": []string{"add", "sub", "mul", "div"}, "description": "Operation to perform"},
				},
				"required": []string{"first_num", "second_num", "operation"},
			},
		},
	}
}

type calculatorResult struct {
	FirstNum  float64 `json:"first_num"`
	SecondNum float64 `json:"second_num"`
	Operation string  `json:"operation"`
	Result    float64 `json:"result"`
}

func (t *CalculatorTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FirstNum  float64 `json:"first_num"`
		SecondNum float64 `json:"second_num"`
		Operation string  `json:"operation"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return ErrJSON(err), nil
	}

	var result float64
	switch args.Operation {
	case "add":
		result = args.FirstNum + args.SecondNum
	case "sub":
		result = args.FirstNum - args.SecondNum
	case "mul":
		result = args.FirstNum * args.SecondNum
	case "div":
		if args.SecondNum == 0 {
			return ErrJSON(fmt.Errorf("division by zero is not allowed")), nil
		}
		result = args.FirstNum / args.SecondNum
	default:
		return ErrJSON(fmt.Errorf("unsupported operation %q", args.Operation)), nil
	}

	b, err := json.Marshal(calculatorResult{
		FirstNum:  args.FirstNum,
		SecondNum: args.SecondNum,
		Operation: args.Operation,
		Result:    result,
	})
	if err != nil {
		return ErrJSON(err), nil
	}
	return string(b), nil
}
