package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const timestampLayout = time.RFC3339

func requireRequest(req *structpb.Struct) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	return nil
}

func field(req *structpb.Struct, key string) (*structpb.Value, bool) {
	v, ok := req.GetFields()[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// stringField は文字列項目を返します。存在しない場合は空文字です。
func stringField(req *structpb.Struct, key string) string {
	v, ok := field(req, key)
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		return ""
	}
}

// optionalStringField は項目が指定されている場合だけポインタを返します。
func optionalStringField(req *structpb.Struct, key string) *string {
	if _, ok := field(req, key); !ok {
		return nil
	}
	value := stringField(req, key)
	return &value
}

// int64Field は数値または数値文字列の項目を整数として返します。
func int64Field(req *structpb.Struct, key string) (int64, error) {
	v, ok := field(req, key)
	if !ok {
		return 0, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be an integer", key))
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be an integer", key))
		}
		return n, nil
	default:
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be an integer", key))
	}
}

// decimalField は金額項目を返します。存在しない場合はゼロです。
// 丸め誤差を避けるため文字列での指定を推奨します。
func decimalField(req *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := field(req, key)
	if !ok {
		return decimal.Zero, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a finite number", key))
		}
		return decimal.NewFromFloat(n), nil
	case *structpb.Value_StringValue:
		trimmed := strings.TrimSpace(kind.StringValue)
		if trimmed == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a number", key))
		}
		return d, nil
	default:
		return decimal.Zero, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a number", key))
	}
}

// stringListField は文字列配列の項目を返します。
func stringListField(req *structpb.Struct, key string) ([]string, error) {
	v, ok := field(req, key)
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a list of strings", key))
	}

	values := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		s, isString := item.GetKind().(*structpb.Value_StringValue)
		if !isString {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a list of strings", key))
		}
		values = append(values, s.StringValue)
	}
	return values, nil
}

// boolFieldOr は真偽値項目を返します。存在しない場合は fallback です。
func boolFieldOr(req *structpb.Struct, key string, fallback bool) bool {
	v, ok := field(req, key)
	if !ok {
		return fallback
	}
	return v.GetBoolValue()
}

func optionalTimeField(req *structpb.Struct, key string) (*time.Time, error) {
	raw := strings.TrimSpace(stringField(req, key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: expected RFC3339 timestamp", key))
	}
	return &t, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

func stringsToList(values []string) []any {
	list := make([]any, 0, len(values))
	for _, v := range values {
		list = append(list, v)
	}
	return list
}

// newResponse は map からレスポンスを組み立てます。
func newResponse(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return resp, nil
}
