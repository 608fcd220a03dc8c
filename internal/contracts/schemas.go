package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compiledSchemas = mustCompileSchemas(schemas.SchemasFS)

// mustCompileSchemas компилирует все схемы из events/. Схемы встроены в бинарник,
// поэтому любая ошибка здесь - ошибка сборки.
func mustCompileSchemas(fsys fs.FS) map[string]*jsonschema.Schema {
	compiled, err := compileSchemas(fsys)
	if err != nil {
		panic(fmt.Sprintf("contracts: %v", err))
	}
	return compiled
}

func compileSchemas(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// сначала добавляем все ресурсы, чтобы работали $ref между схемами
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path %s", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует "events/lead-captured/v1.json" в "LeadCapturedEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"
	return fmt.Sprintf("%s/%s", name.String(), version)
}

// ValidateEvent проверяет тело сообщения по схеме события.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// KnownEvents возвращает ключи зарегистрированных схем.
func KnownEvents() []string {
	keys := make([]string, 0, len(compiledSchemas))
	for k := range compiledSchemas {
		keys = append(keys, k)
	}
	return keys
}
