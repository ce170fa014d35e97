package gouncertain

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Tools lists the tool names HandleToolCall understands.
var Tools = []string{"format", "parse", "propagate", "covariance", "mcp_spec"}

// HandleToolCall runs one tool call; failures are reported in ToolResponse.Error.
func HandleToolCall(req ToolRequest) ToolResponse {
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getDocument := func() (*Document, error) {
		v, ok := req.Params["document"]
		if !ok {
			return nil, fmt.Errorf("missing param: document")
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("param document: %w", err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("param document: %w", err)
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	failure := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "format":
		v, err := getNumber("value")
		if err != nil {
			return failure(err)
		}
		e := 0.0
		if _, ok := req.Params["error"]; ok {
			if e, err = getNumber("error"); err != nil {
				return failure(err)
			}
		}
		s := Format(v, e)
		return ToolResponse{Result: s, String: s}

	case "parse":
		lit, err := getString("literal")
		if err != nil {
			return failure(err)
		}
		v, e, hasErr, err := Parse(lit)
		if err != nil {
			return failure(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"value": v, "error": e, "has_error": hasErr},
			String: Format(v, e),
		}

	case "propagate":
		doc, err := getDocument()
		if err != nil {
			return failure(err)
		}
		results, err := doc.Evaluate()
		if err != nil {
			return failure(err)
		}
		outs := make([]map[string]interface{}, len(results))
		ops := make([]Operand, len(results))
		var summary string
		for i, r := range results {
			m := quantityJSON(r.Quantity)
			m["name"] = r.Name
			outs[i] = m
			ops[i] = r.Quantity
			if i > 0 {
				summary += ", "
			}
			summary += r.Name + " = " + r.Quantity.String()
		}
		return ToolResponse{
			Result: map[string]interface{}{
				"outputs":     outs,
				"covariance":  symRows(CovarianceMatrix(ops...)),
				"correlation": symRows(CorrelationMatrix(ops...)),
			},
			String: summary,
		}

	case "covariance":
		doc, err := getDocument()
		if err != nil {
			return failure(err)
		}
		a, err := getString("a")
		if err != nil {
			return failure(err)
		}
		b, err := getString("b")
		if err != nil {
			return failure(err)
		}
		results, err := doc.Evaluate()
		if err != nil {
			return failure(err)
		}
		qa, qb := findResult(results, a), findResult(results, b)
		if qa == nil {
			return failure(fmt.Errorf("unknown output %q", a))
		}
		if qb == nil {
			return failure(fmt.Errorf("unknown output %q", b))
		}
		res := map[string]interface{}{"covariance": qa.Covariance(qb)}
		if rho, ok := Correlation(qa, qb); ok {
			res["correlation"] = rho
		}
		return ToolResponse{Result: res, String: fmt.Sprintf("cov(%s, %s) = %g", a, b, res["covariance"])}

	case "mcp_spec":
		return ToolResponse{String: MCPToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func findResult(results []Result, name string) *Derived {
	for _, r := range results {
		if r.Name == name {
			return r.Quantity
		}
	}
	return nil
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("format", "Render value and standard error as 1.234(56)e-7", []string{"value"}, map[string]string{"value": "number", "error": "number"}),
		ts("parse", "Parse a literal like 1.234(56)e-7 into value and error", []string{"literal"}, map[string]string{"literal": "string"}),
		ts("propagate", "Evaluate document outputs with propagated errors and their covariance matrix", []string{"document"}, map[string]string{"document": "object"}),
		ts("covariance", "Covariance and correlation of two document outputs a and b", []string{"document", "a", "b"}, map[string]string{"document": "object", "a": "string", "b": "string"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
