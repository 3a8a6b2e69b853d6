package domain

// ProjectSummary is the slice of the external project collaborator the
// settlement core cares about.
type ProjectSummary struct {
	ProjectCode string `json:"projectCode"` // Primary Key (e.g., "PRJ-2024-001")
	Name        string `json:"name"`
	ClientName  string `json:"clientName"`
	AuditFields
}
