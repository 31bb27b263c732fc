package dto

import "time"

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// InfoResponse is returned by the root endpoint
type InfoResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Docs        string `json:"docs"`
	Health      string `json:"health"`
	API         string `json:"api"`
}
