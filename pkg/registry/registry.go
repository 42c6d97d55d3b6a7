// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry %s: %w", path, err)
	}
	return &reg, nil
}

// FindByTaskType returns the activity registered for taskType.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// InputSchemas maps each task type to its declared input schema.
func (r *ActivityRegistry) InputSchemas() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(r.Activities))
	for _, a := range r.Activities {
		if len(a.InputSchema) > 0 {
			out[a.TaskType] = a.InputSchema
		}
	}
	return out
}

// OutputSchemas maps each task type to the schema its completion variables
// must satisfy.
func (r *ActivityRegistry) OutputSchemas() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(r.Activities))
	for _, a := range r.Activities {
		if len(a.OutputSchema) > 0 {
			out[a.TaskType] = a.OutputSchema
		}
	}
	return out
}

// Validate checks the structural rules every activity must satisfy. When
// knownErrorCodes is non-empty, declared error codes must be in it.
func (r *ActivityRegistry) Validate(knownErrorCodes map[string]bool) error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity id: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: category", activity.ID)
		}
		if !knownStatuses[activity.ImplementationStatus] {
			return fmt.Errorf("activity %s has unknown implementationStatus %q", activity.ID, activity.ImplementationStatus)
		}
		if activity.Implemented() && (len(activity.InputSchema) == 0 || len(activity.OutputSchema) == 0) {
			return fmt.Errorf("implemented activity %s must declare inputSchema and outputSchema", activity.ID)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
			}
		}
		if activity.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", activity.ID)
		}
		if len(knownErrorCodes) > 0 {
			for _, code := range activity.ErrorCodes {
				if !knownErrorCodes[code] {
					return fmt.Errorf("activity %s declares unknown error code %s", activity.ID, code)
				}
			}
		}
	}
	return nil
}

// UpdateField sets one scalar field on the activity with the given id.
func (r *ActivityRegistry) UpdateField(id, field, value string) error {
	var activity *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			activity = &r.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with id %s not found", id)
	}

	switch field {
	case "status":
		if !knownStatuses[value] {
			return fmt.Errorf("invalid status value: %s", value)
		}
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
