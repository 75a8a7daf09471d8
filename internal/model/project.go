package model

import "time"

// Project is a named bucket that time entries are recorded against.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ScanProject decodes a row selected as (id, name, created_at).
func ScanProject(row RowScanner) (Project, error) {
	var (
		p       Project
		created string
	)
	if err := row.Scan(&p.ID, &p.Name, &created); err != nil {
		return Project{}, err
	}
	t, err := ParseTimestamp(created)
	if err != nil {
		return Project{}, err
	}
	p.CreatedAt = t
	return p, nil
}
