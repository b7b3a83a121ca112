package core

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// encodeWireBody marshals body with every key converted to wire case.
func encodeWireBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	generic, err := toGeneric(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ToWireCase(generic))
}

// decodeLocalCase converts the keys of data to local case and decodes the
// result into out. An empty payload leaves out untouched.
func decodeLocalCase(data []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	generic, err := decodeGeneric(trimmed)
	if err != nil {
		return err
	}
	local := ToLocalCase(generic)
	if target, ok := out.(*any); ok {
		*target = local
		return nil
	}
	encoded, err := json.Marshal(local)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}

func toGeneric(value any) (any, error) {
	switch value.(type) {
	case map[string]any, []any:
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return decodeGeneric(raw)
}

func decodeGeneric(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var generic any
	if err := decoder.Decode(&generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// encodeWireQuery converts query keys to wire case and flattens values;
// slices are joined with commas and nil values are dropped.
func encodeWireQuery(query map[string]any) map[string]string {
	if len(query) == 0 {
		return nil
	}
	out := make(map[string]string, len(query))
	for key, value := range query {
		formatted, ok := formatQueryValue(value)
		if !ok {
			continue
		}
		out[WireKey(key)] = formatted
	}
	return out
}

func formatQueryValue(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano), true
	case *time.Time:
		if typed == nil {
			return "", false
		}
		return typed.UTC().Format(time.RFC3339Nano), true
	case fmt.Stringer:
		return typed.String(), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		return formatQueryValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if part, ok := formatQueryValue(rv.Index(i).Interface()); ok {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(value), true
	}
}

func encodeMultipart(body *MultipartBody) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(body.Fields))
	for key := range body.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, body.Fields[key]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range body.Files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(file.Content)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
