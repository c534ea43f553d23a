package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/textlens/textlens/internal/logger"
	"github.com/textlens/textlens/internal/oracle"
	"go.uber.org/zap"
)

const systemInstruction = "You are a document analysis assistant. " +
	"Answer using only the provided inputs. " +
	"Respond with a single JSON object and nothing else."

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Oracle adapts the Gemini generator to the oracle.Oracle contract: it
// renders a request into a prompt asking for a JSON object with the declared
// output fields and normalizes the reply back into that shape.
type Oracle struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewOracle creates a Gemini-backed oracle.
func NewOracle(generator contentGenerator, log *zap.Logger, maxLogLength int) *Oracle {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Oracle{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Call sends the request to Gemini. The returned map contains a value for
// every declared output field; fields the model omitted are empty strings.
// Transport failures wrap oracle.ErrUnavailable.
func (o *Oracle) Call(ctx context.Context, req oracle.Request) (map[string]string, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oracle request: %w", err)
	}

	prompt := buildPrompt(req)

	o.logger.Debug("oracle request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, o.maxLogLen)),
	)

	raw, err := o.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}

	o.logger.Debug("oracle response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, o.maxLogLen)),
	)

	return o.shapeResponse(raw, req.Outputs), nil
}

// buildPrompt renders the instruction, the named inputs, and the expected
// output schema into a single prompt.
func buildPrompt(req oracle.Request) string {
	var builder strings.Builder

	builder.WriteString(strings.TrimSpace(req.Instruction))
	builder.WriteString("\n\n[Inputs]\n")

	names := make([]string, 0, len(req.Inputs))
	for name := range req.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		builder.WriteString(fmt.Sprintf("## %s\n%s\n\n", name, strings.TrimSpace(req.Inputs[name])))
	}

	builder.WriteString("[Response]\n")
	builder.WriteString("Return a JSON object with exactly these string fields: ")
	builder.WriteString(strings.Join(req.Outputs, ", "))
	builder.WriteString(".")

	return builder.String()
}

// shapeResponse guarantees the declared output shape. When the reply is not
// parseable JSON, a single-field request gets the whole reply as that field;
// multi-field requests degrade to empty values.
func (o *Oracle) shapeResponse(raw string, outputs []string) map[string]string {
	result := make(map[string]string, len(outputs))
	for _, name := range outputs {
		result[name] = ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		if len(outputs) == 1 {
			result[outputs[0]] = strings.TrimSpace(raw)
			return result
		}

		o.logger.Warn("unparseable oracle response, degrading to empty fields",
			zap.Strings("expected_fields", outputs),
			zap.String("response_preview", logger.TruncateForLog(raw, o.maxLogLen)),
		)
		return result
	}

	for _, name := range outputs {
		if value, ok := data[name]; ok {
			result[name] = coerceString(value)
		}
	}

	return result
}

// extractJSON strips markdown code fences the model tends to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
