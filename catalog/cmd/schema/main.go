// Command schema emits the JSON schema for catalog documents so editor
// tooling can validate designer-authored template files.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"cinderhold/server/catalog"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("schema: missing -out path")
	}

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(catalog.Document{}))
	if schema == nil {
		log.Fatal("schema: failed to reflect document schema")
	}
	schema.Title = "Cinderhold Catalog Document"
	schema.Description = "Template definitions (entities, effects, hazards, weapons, projectiles) loaded into the runtime registry."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("schema: marshal: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("schema: write schema: %v", err)
	}
}
