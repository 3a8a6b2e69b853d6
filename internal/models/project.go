package models

// Project is the projects row.
type Project struct {
	ProjectCode string `db:"project_code"`
	Name        string `db:"name"`
	ClientName  string `db:"client_name"`
	AuditFields
}
