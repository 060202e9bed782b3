package request

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strings"
)

// FormFile is a binary part of a multipart body.
type FormFile interface {
	FormFileName() string
	FormFileContentType() string
	FormFileContent() []byte
}

var formFileType = reflect.TypeOf((*FormFile)(nil)).Elem()

func encodeMultipart(body any) ([]byte, string, error) {
	v := reflect.ValueOf(body)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, "", fmt.Errorf("body is nil")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, "", fmt.Errorf("body must be a struct, got %s", v.Kind())
	}

	payload := &bytes.Buffer{}
	writer := multipart.NewWriter(payload)

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}

		fv := v.Field(i)
		if isNilValue(fv) {
			continue
		}

		if fv.Type().Implements(formFileType) {
			if err := writeFilePart(writer, name, fv.Interface().(FormFile)); err != nil {
				return nil, "", err
			}
			continue
		}

		s, ok := formatValue(fv.Interface())
		if !ok {
			continue
		}

		if err := writer.WriteField(name, s); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return payload.Bytes(), writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, name string, file FormFile) error {
	filename := file.FormFileName()
	if filename == "" {
		filename = name
	}

	contentType := file.FormFileContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(name), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part %s: %w", name, err)
	}

	if _, err := part.Write(file.FormFileContent()); err != nil {
		return fmt.Errorf("failed to write file part %s: %w", name, err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	}

	return false
}
