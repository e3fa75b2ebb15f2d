package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/lookup"
	"github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func main() {
	source := flag.String("source", "examples/basic/schema.json", "schema document path or URL")
	rendererName := flag.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	operation := flag.String("operation", "", "treat the source as an OpenAPI document and build the form from this operation's request body")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}

	loader := formflow.NewLoader(schema.LoaderOptions{
		AllowHTTPFallback: true,
		RequestTimeout:    10 * time.Second,
	})
	doc, err := loader.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	var sch formflow.Schema
	if *operation != "" {
		sch, err = openapi.New().Convert(ctx, doc.Raw(), *operation)
	} else {
		sch, err = doc.Parse()
	}
	if err != nil {
		log.Fatalf("Failed to parse schema: %v", err)
	}

	registry, err := formflow.DefaultRegistry(tui.WithLookup(lookup.NewFixture()))
	if err != nil {
		log.Fatalf("Failed to build renderers: %v", err)
	}
	renderer, err := registry.Get(*rendererName)
	if err != nil {
		log.Fatalf("Unknown renderer: %v", err)
	}

	rendered, err := renderer.Render(ctx, sch, render.RenderOptions{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(rendered))
	}
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}
