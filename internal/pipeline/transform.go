package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// transformModelOutput converts the model's decoded JSON object into a
// candidate ParsedTransaction. It only checks shape; domain repair (category
// resolution, date format, clamping) belongs to the Validator.
func transformModelOutput(raw map[string]interface{}) (domain.ParsedTransaction, error) {
	var out domain.ParsedTransaction

	amount, err := getFloat64Field(raw, "amount", true)
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}

	typeStr, err := getStringField(raw, "type", true)
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}
	txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(typeStr)))
	if !txType.Valid() {
		return out, fmt.Errorf("transformModelOutput: unknown type %q", typeStr)
	}

	categoryStr, err := getStringField(raw, "category", true)
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}
	description, err := getStringField(raw, "description", false)
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}
	dateStr, err := getStringField(raw, "date", false)
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}

	merchant, err := getOptionalStringField(raw, "merchant")
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}

	confidence, err := getOptionalFloat64Field(raw, "confidence")
	if err != nil {
		return out, fmt.Errorf("transformModelOutput: %w", err)
	}

	out = domain.ParsedTransaction{
		Amount:      decimal.NewFromFloat(amount),
		Type:        txType,
		Category:    categoryStr,
		Description: strings.TrimSpace(description),
		Date:        strings.TrimSpace(dateStr),
	}
	if merchant != nil {
		out.Merchant = *merchant
	}
	if confidence != nil {
		out.Confidence = *confidence
	}
	return out, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getOptionalFloat64Field(m map[string]interface{}, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f, nil
	case int:
		f := float64(val)
		return &f, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want number or null", key, v)
	}
}
