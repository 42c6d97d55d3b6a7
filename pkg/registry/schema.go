// pkg/registry/schema.go
package registry

// Implementation states an activity can be in. Only implemented activities
// get a worker at startup.
const (
	StatusImplemented = "implemented"
	StatusPlanned     = "planned"
	StatusDeprecated  = "deprecated"
)

var knownStatuses = map[string]bool{
	StatusImplemented: true,
	StatusPlanned:     true,
	StatusDeprecated:  true,
}

// ActivityRegistry is the on-disk catalogue of the task types this service
// serves, read by the worker manager and rewritten by registry-updater.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one Zeebe task type. InputSchema guards the job
// variables a worker accepts; OutputSchema is the contract for the variables
// it completes the job with.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
}

func (a *Activity) Implemented() bool {
	return a.ImplementationStatus == StatusImplemented
}
