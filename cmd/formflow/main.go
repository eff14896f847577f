// Command formflow runs a form as an interactive terminal session. The source
// may be a form definition document (YAML or JSON) or an OpenAPI document; the
// validated payload is printed as JSON once the submission is accepted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"gopkg.in/yaml.v3"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

func main() {
	var (
		sourceFlag    = flag.String("source", "", "form definition document or OpenAPI document (YAML or JSON)")
		operationFlag = flag.String("operation", "", "operation ID when the source is an OpenAPI document")
		outputFlag    = flag.String("output", "", "file for the accepted payload (stdout if empty)")
		versionFlag   = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println(formflow.Version)
		return
	}
	if *sourceFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	controller, err := buildController(ctx, *sourceFlag, *operationFlag)
	if err != nil {
		log.Fatalf("load %s: %v", *sourceFlag, err)
	}

	runner, err := tui.NewRunner(controller)
	if err != nil {
		log.Fatalf("runner: %v", err)
	}

	submission, err := runner.Run(ctx)
	if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	if !submission.Accepted {
		for _, msg := range submission.FormErrors {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	payload, err := json.MarshalIndent(submission.Payload, "", "  ")
	if err != nil {
		log.Fatalf("encode payload: %v", err)
	}
	payload = append(payload, '\n')

	if *outputFlag == "" {
		fmt.Print(string(payload))
		return
	}
	if err := os.WriteFile(*outputFlag, payload, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("wrote %d bytes to %s", len(payload), *outputFlag)
}

func buildController(ctx context.Context, source, operationID string) (*formflow.Controller, error) {
	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}

	if !isOpenAPIDocument(raw) {
		return formflow.LoadController(source)
	}

	doc, err := openapi.Load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if operationID == "" {
		operationID, err = soleOperation(doc)
		if err != nil {
			return nil, err
		}
	}
	f, err := doc.Form(operationID)
	if err != nil {
		return nil, err
	}
	return formflow.NewForm(f)
}

// soleOperation picks the operation when the document has exactly one with a
// request schema; anything else needs -operation.
func soleOperation(doc *openapi.Document) (string, error) {
	forms, err := doc.Forms()
	if err != nil {
		return "", err
	}
	if len(forms) == 1 {
		for id := range forms {
			return id, nil
		}
	}

	ids := make([]string, 0, len(forms))
	for id := range forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "", fmt.Errorf("document has %d operations, pick one with -operation: %v", len(ids), ids)
}

func isOpenAPIDocument(raw []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
		Swagger string `yaml:"swagger"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != "" || probe.Swagger != ""
}
