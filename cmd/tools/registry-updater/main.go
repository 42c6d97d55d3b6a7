// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/validation"
	"job-recommender/pkg/registry"
)

func main() {
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	updatePath := updateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, displayName, description, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		count, err := validateRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", count)

	case "help":
		fallthrough
	default:
		help()
	}
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.UpdateField(id, field, value); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format("2006-01-02")
	return registry.SaveRegistry(reg, path)
}

// validateRegistry checks structure, that every declared error code is one the
// workers can raise, and that every input and output schema compiles.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}

	known := make(map[string]bool, len(errors.BPMNErrorMapping))
	for _, bpmnCode := range errors.BPMNErrorMapping {
		known[bpmnCode] = true
	}
	if err := reg.Validate(known); err != nil {
		return 0, err
	}
	if _, err := validation.NewValidator(reg.InputSchemas()); err != nil {
		return 0, err
	}
	if _, err := validation.NewValidator(reg.OutputSchemas()); err != nil {
		return 0, err
	}
	return len(reg.Activities), nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  update   Update an existing activity's field
  validate Validate the registry file and compile its schemas
  help     Show this help message

Examples:
  registry-updater update -id act-recommend-jobs -field timeout -value 45s
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
