package model

// Organization is the tenant boundary the engine iterates over. Everything
// else about organizations (branches, users, CRUD) lives outside this module.
type Organization struct {
	ID       string
	Name     string
	IsActive bool
}
